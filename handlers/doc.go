// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the group-verdict API.

# Handler Types

Each handler is a struct with engine and config dependencies:

  - GameHandler: Game lifecycle (create, entrants, start, settle)
  - VotingHandler: Vote casting, changing, clearing
  - AdminHandler: Round resolution and progression triggers
  - ResultsHandler: Public game state, outcomes, share QR codes

Handlers are created via constructor functions that accept *engine.Engine
and Config:

	gameHandler := handlers.NewGameHandler(eng, cfg)

# Game Lifecycle

Games progress signup -> in_progress -> completed -> settled, with the
hidden-role variant's early terminal status role_holder_won:

	POST /games                → CreateGame (returns admin_key)
	POST /games/{id}/entrants  → AddEntrants (signup only)
	POST /games/{id}/start     → StartGame (forms round 1, returns share_slug)
	POST /games/{id}/resolve   → ResolveRound (runs the consensus algorithm)
	POST /games/{id}/advance   → AdvanceRound (next round or winners)
	POST /games/{id}/settle    → SettleGame (completed games only)

Admin operations require the X-Admin-Key header. The key is checked here,
once, at the boundary; the engine assumes its caller is authorized.

# Voting Flow

Participants interact per group, identified by the X-Participant-ID header
(identity verification happens upstream of this service):

	POST   /groups/{id}/votes → CastVote
	PUT    /groups/{id}/votes → ChangeVote (mutable vote policy only)
	DELETE /groups/{id}/votes → ClearVote (mutable vote policy only)

# Read Surface

	GET /games/{slug}         → public game state (role holders concealed)
	GET /games/{id}/outcome   → terminal result for settlement/notification
	GET /games/{slug}/qr      → PNG QR code of the share URL
*/
package handlers
