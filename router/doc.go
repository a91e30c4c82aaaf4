// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

# Routes

Uses Go 1.22+ method-aware routing on the standard ServeMux:

	POST   /games                  → create game
	POST   /games/{id}/entrants    → add entrants (admin)
	POST   /games/{id}/start       → start game (admin)
	POST   /games/{id}/resolve     → resolve current round (admin)
	POST   /games/{id}/advance     → advance or finish (admin)
	POST   /games/{id}/settle      → settle completed game (admin)
	POST   /groups/{id}/votes      → cast vote
	PUT    /groups/{id}/votes      → change vote
	DELETE /groups/{id}/votes      → clear vote
	GET    /games/{slug}           → public game state
	GET    /games/{slug}/qr        → share QR code
	GET    /games/{id}/outcome     → terminal outcome
	GET    /health                 → health check

All routes share the logging middleware. Longer literal suffixes win over
shorter patterns, so /games/{slug}/qr and /games/{id}/outcome route past
/games/{slug}.
*/
package router
