// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and share slug creation.

# Admin Keys

Admin keys are HMAC-SHA256 of the game ID under a server-side salt, so they
are deterministic and verifiable without storing anything:

	key := auth.GenerateAdminKey(gameID, salt)
	err := auth.ValidateAdminKey(gameID, providedKey, salt)

Validation uses constant-time comparison. The capability check happens once
at the service boundary; the engine assumes its caller is already
authorized.

# Share Slugs

Share slugs are short base62 handles derived the same way:

	slug := auth.GenerateShareSlug(gameID, salt)

They identify a game publicly without exposing its ID.
*/
package auth
