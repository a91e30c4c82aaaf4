// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Game status constants
const (
	StatusSignup        = "signup"
	StatusInProgress    = "in_progress"
	StatusCompleted     = "completed"
	StatusSettled       = "settled"
	StatusRoleHolderWon = "role_holder_won"
)

// Round status constants
const (
	RoundVoting    = "voting"
	RoundCompleted = "completed"
)

// Group status constants
const (
	GroupVoting        = "voting"
	GroupCompleted     = "completed"
	GroupEliminated    = "eliminated"
	GroupRoleHolderWon = "role_holder_won"
)

// Variant constants
const (
	VariantElimination = "elimination"
	VariantHiddenRole  = "hidden_role"
)

// Vote policy constants
const (
	VotePolicyImmutable = "immutable"
	VotePolicyMutable   = "mutable"
)

// Verdict policy constants: whether a unanimous choice is kept or removed
const (
	VerdictKeepChosen = "keep_chosen"
	VerdictDropChosen = "drop_chosen"
)

// Entrant status constants
const (
	EntrantActive     = "active"
	EntrantEliminated = "eliminated"
)

// Request types

type CreateGameRequest struct {
	Title           string `json:"title"`
	CreatorName     string `json:"creator_name"`
	Variant         string `json:"variant"`
	GroupSize       int    `json:"group_size,omitempty"`
	VerdictPolicy   string `json:"verdict_policy,omitempty"`
	VotePolicy      string `json:"vote_policy,omitempty"`
	AllowSelfVote   bool   `json:"allow_self_vote,omitempty"`
	FinishThreshold int    `json:"finish_threshold,omitempty"`
}

type AddEntrantsRequest struct {
	ParticipantIDs []int64 `json:"participant_ids"`
}

// Groups is an optional custom assignment for round 1; when omitted the
// engine shuffles the roster into groups itself.
type StartGameRequest struct {
	Groups [][]int64 `json:"groups,omitempty"`
}

type CastVoteRequest struct {
	TargetID int64 `json:"target_id"`
}

// Response types

type CreateGameResponse struct {
	GameID   string `json:"game_id"`
	AdminKey string `json:"admin_key"`
}

type AddEntrantsResponse struct {
	Added int `json:"added"`
}

type StartGameResponse struct {
	ShareSlug string      `json:"share_slug"`
	ShareURL  string      `json:"share_url"`
	Round     RoundView   `json:"round"`
	Groups    []GroupView `json:"groups"`
}

type CastVoteResponse struct {
	GroupID     string    `json:"group_id"`
	VoterID     int64     `json:"voter_id"`
	TargetID    int64     `json:"target_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Message     string    `json:"message"`
}

type ResolveRoundResponse struct {
	RoundNumber int            `json:"round_number"`
	RoundName   string         `json:"round_name"`
	GameEnded   bool           `json:"game_ended"`
	GameStatus  string         `json:"game_status"`
	Groups      []GroupOutcome `json:"groups"`
}

type AdvanceRoundResponse struct {
	Finished    bool        `json:"finished"`
	GameStatus  string      `json:"game_status"`
	Winners     []int64     `json:"winners,omitempty"`
	RoundNumber int         `json:"round_number,omitempty"`
	RoundName   string      `json:"round_name,omitempty"`
	Groups      []GroupView `json:"groups,omitempty"`
}

type OutcomeResponse struct {
	GameID   string  `json:"game_id"`
	Status   string  `json:"status"`
	Winners  []int64 `json:"winners"`
	WinnerID *int64  `json:"winner_id,omitempty"`
}

type GameStateResponse struct {
	Game   GameView    `json:"game"`
	Round  *RoundView  `json:"round,omitempty"`
	Groups []GroupView `json:"groups,omitempty"`
}

// Domain types

type Game struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CreatorName     string     `json:"creator_name"`
	Variant         string     `json:"variant"`
	Status          string     `json:"status"`
	GroupSize       int        `json:"group_size"`
	VerdictPolicy   string     `json:"verdict_policy"`
	VotePolicy      string     `json:"vote_policy"`
	AllowSelfVote   bool       `json:"allow_self_vote"`
	FinishThreshold int        `json:"finish_threshold"`
	CurrentRound    int        `json:"current_round"`
	ShareSlug       *string    `json:"share_slug,omitempty"`
	WinnerID        *int64     `json:"-"` // Terminal role-holder; exposed only via OutcomeResponse
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type Round struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Number    int       `json:"number"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Group struct {
	ID           string  `json:"id"`
	RoundID      string  `json:"round_id"`
	Number       int     `json:"group_number"`
	Status       string  `json:"status"`
	WinnerID     *int64  `json:"winner_id,omitempty"`
	RoleHolderID *int64  `json:"-"` // Never expose in JSON
	Members      []int64 `json:"members"`
}

type Vote struct {
	GroupID     string    `json:"group_id"`
	VoterID     int64     `json:"voter_id"`
	TargetID    int64     `json:"target_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// View types (public projections; role holders stay concealed)

type GameView struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Variant      string  `json:"variant"`
	Status       string  `json:"status"`
	GroupSize    int     `json:"group_size"`
	CurrentRound int     `json:"current_round"`
	ShareSlug    *string `json:"share_slug,omitempty"`
}

type RoundView struct {
	Number int    `json:"number"`
	Status string `json:"status"`
}

type GroupView struct {
	ID       string  `json:"id"`
	Number   int     `json:"group_number"`
	Status   string  `json:"status"`
	WinnerID *int64  `json:"winner_id,omitempty"`
	Members  []int64 `json:"members"`
}

type GroupOutcome struct {
	GroupID  string `json:"group_id"`
	Number   int    `json:"group_number"`
	Status   string `json:"status"`
	WinnerID *int64 `json:"winner_id,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
