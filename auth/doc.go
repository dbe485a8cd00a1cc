// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ID generation and admin key validation.

# IDs

GenerateID returns a random hex string from crypto/rand:

	electionID, err := auth.GenerateID(16) // 32 hex chars

# Admin Keys

Admin keys are HMAC-SHA256 over the election ID with a server-side
salt, so they can be re-derived and verified without storing them:

	key := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, key, salt)

Validation uses constant-time comparison.

# Slugs

GenerateSlug derives the short public URL slug for a published
election, again via HMAC, encoded as base62 so it is URL-safe:

	slug := auth.GenerateSlug(electionID, slugSalt)

The slug is deterministic per election and salt; publishing twice
yields the same slug.
*/
package auth
