// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Games
CREATE TABLE IF NOT EXISTS game (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    creator_name TEXT NOT NULL,
    variant TEXT NOT NULL CHECK (variant IN ('elimination', 'hidden_role')),
    status TEXT NOT NULL DEFAULT 'signup'
        CHECK (status IN ('signup', 'in_progress', 'completed', 'settled', 'role_holder_won')),
    group_size INTEGER NOT NULL DEFAULT 3,
    verdict_policy TEXT NOT NULL DEFAULT 'keep_chosen' CHECK (verdict_policy IN ('keep_chosen', 'drop_chosen')),
    vote_policy TEXT NOT NULL DEFAULT 'immutable' CHECK (vote_policy IN ('immutable', 'mutable')),
    allow_self_vote INTEGER NOT NULL DEFAULT 0,
    finish_threshold INTEGER NOT NULL DEFAULT 1,
    current_round INTEGER NOT NULL DEFAULT 0,
    share_slug TEXT UNIQUE,
    winner_id BIGINT,
    created_at TIMESTAMP NOT NULL,
    started_at TIMESTAMP,
    completed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_game_share_slug ON game(share_slug);
CREATE INDEX IF NOT EXISTS idx_game_status ON game(status);

-- Entrants (the tournament roster; the engine's eligibility source)
CREATE TABLE IF NOT EXISTS game_entrant (
    game_id TEXT NOT NULL REFERENCES game(id) ON DELETE CASCADE,
    participant_id BIGINT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'eliminated')),
    joined_at TIMESTAMP NOT NULL,
    PRIMARY KEY (game_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_game_entrant_game ON game_entrant(game_id, status);

-- Rounds
CREATE TABLE IF NOT EXISTS round (
    id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL REFERENCES game(id) ON DELETE CASCADE,
    number INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'voting' CHECK (status IN ('voting', 'completed')),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (game_id, number)
);

CREATE INDEX IF NOT EXISTS idx_round_game_id ON round(game_id);

-- Voting groups
CREATE TABLE IF NOT EXISTS voting_group (
    id TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES round(id) ON DELETE CASCADE,
    group_number INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'voting'
        CHECK (status IN ('voting', 'completed', 'eliminated', 'role_holder_won')),
    winner_id BIGINT,
    role_holder_id BIGINT,
    UNIQUE (round_id, group_number)
);

CREATE INDEX IF NOT EXISTS idx_voting_group_round ON voting_group(round_id);

-- Group membership
CREATE TABLE IF NOT EXISTS group_member (
    group_id TEXT NOT NULL REFERENCES voting_group(id) ON DELETE CASCADE,
    participant_id BIGINT NOT NULL,
    PRIMARY KEY (group_id, participant_id)
);

-- Votes (at most one active vote per voter per group, enforced by the primary key)
CREATE TABLE IF NOT EXISTS vote (
    group_id TEXT NOT NULL REFERENCES voting_group(id) ON DELETE CASCADE,
    voter_id BIGINT NOT NULL,
    target_id BIGINT NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    PRIMARY KEY (group_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_group ON vote(group_id);

-- Terminal winners / finalists
CREATE TABLE IF NOT EXISTS game_winner (
    game_id TEXT NOT NULL REFERENCES game(id) ON DELETE CASCADE,
    participant_id BIGINT NOT NULL,
    PRIMARY KEY (game_id, participant_id)
);
`
