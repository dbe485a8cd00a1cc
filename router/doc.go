// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method routing.

# Route Groups

  - Admin: election building and publishing (X-Admin-Key header)
  - Public: questionnaire retrieval and match submission (by slug)
  - Analytics: summary and visitor listings (by slug)
  - Ops: /health and prometheus /metrics

Admin routes address elections by internal ID; public routes address
them by their published slug. The two never overlap because slugs only
appear under paths with further segments ({slug}/match, {slug}/summary)
or the bare GET /elections/{slug}, while admin paths always carry a
trailing segment like /admin or /publish.
*/
package router
