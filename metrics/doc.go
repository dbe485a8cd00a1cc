// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes prometheus instrumentation for the service.

Each Metrics value owns a private registry, created via metrics.New and
served at GET /metrics:

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

Counters and histograms cover submission volume, failures, match
latency and slate size.
*/
package metrics
