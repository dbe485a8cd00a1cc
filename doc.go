// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Civimatch API server.

Civimatch is a voter-guide service: organizers build an election out of
categories, questions and candidates; anonymous voters answer the
questions with importance weights and get back a ranked list of
candidates by affinity. Every submission is recorded as an immutable
audit trail for later analytics.

# Starting the Server

The server requires environment variables or CLI flags for
configuration:

	DATABASE_URL=civimatch.db go run main.go

Or with flags:

	go run main.go -p 3419 -d "postgres://..." -t postgres

A .env file in the working directory is loaded automatically when
present.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - ELECTION_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3419)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - BASE_URL (--base-url): Public origin for canonical election URLs

# Architecture

The server uses a handler-based architecture with dependency injection:

  - matching: the candidate-affinity engine (pure, no I/O)
  - handlers: HTTP request handlers (elections, match, analytics)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain, request/response and analytics types
  - auth: ID generation, admin keys, share slugs
  - db: Schema creation
  - metrics: Prometheus instrumentation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
