// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateGameRequest: title, creator_name, variant, group_size, policies
  - AddEntrantsRequest: participant_ids
  - StartGameRequest: optional custom group assignment
  - CastVoteRequest: target_id

# Response Types

Types for JSON responses:

  - CreateGameResponse: game_id, admin_key
  - AddEntrantsResponse: added
  - StartGameResponse: share_slug, share_url, round, groups
  - CastVoteResponse: vote echo plus message
  - ResolveRoundResponse: per-group outcomes of one resolution pass
  - AdvanceRoundResponse: next round or terminal winners
  - OutcomeResponse: status plus winners
  - GameStateResponse: public projection of a game
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Game: tournament metadata, variant configuration, lifecycle state
  - Round: one grouping+voting pass
  - Group: a voting unit; RoleHolderID is never serialized
  - Vote: one voter's choice within their group

View types (GameView, RoundView, GroupView) are the public projections
handed out over HTTP. They never carry role holders.

# Constants

Game status values:

	StatusSignup        = "signup"
	StatusInProgress    = "in_progress"
	StatusCompleted     = "completed"
	StatusSettled       = "settled"
	StatusRoleHolderWon = "role_holder_won"

Variants:

	VariantElimination = "elimination"
	VariantHiddenRole  = "hidden_role"

Vote policies:

	VotePolicyImmutable = "immutable"
	VotePolicyMutable   = "mutable"

Verdict policies (whether the unanimous choice is the one kept or the one
removed - games interpret the same unanimity outcome oppositely, so this is
explicit per game rather than implied by naming):

	VerdictKeepChosen = "keep_chosen"
	VerdictDropChosen = "drop_chosen"
*/
package models
