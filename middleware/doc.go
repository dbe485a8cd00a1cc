// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

# Helpers

  - WithLogging: request start/completion logging via slog
  - JSONResponse / ErrorResponse: consistent JSON output
  - ParseJSONBody: request body decoding
  - CORS: cross-origin support with preflight handling
  - GetClientIP: client address extraction behind proxies

# Usage

	mux.HandleFunc("POST /elections", middleware.WithLogging(h.CreateElection))

Error responses always have the shape:

	{"error": "Bad Request", "message": "title is required"}
*/
package middleware
