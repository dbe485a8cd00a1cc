// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Precedence

CLI flags win over environment variables; environment variables win
over defaults. Secrets have no defaults and must be provided.

# Settings

Required:

  - DATABASE_URL (-d): connection string (postgres DSN or sqlite path)
  - ADMIN_KEY_SALT (--admin-salt): secret for admin key HMAC
  - ELECTION_SLUG_SALT (--slug-salt): secret for share slug generation

Optional:

  - PORT (-p): server port (default: 3419)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - BASE_URL (--base-url): public base for canonical election URLs
    (default: http://localhost:PORT)

BASE_URL is what visitors' canonical election URLs are built from, so
in production it should be the externally reachable origin.
*/
package cliparse
