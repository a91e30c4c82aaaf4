// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - game: Tournament metadata, variant configuration, and lifecycle state
  - game_entrant: The roster; alive/eliminated status per participant
  - round: One grouping+voting pass within a game
  - voting_group: A small voting unit within a round
  - group_member: Participants assigned to a group
  - vote: One active vote per voter per group
  - game_winner: Terminal winners/finalists of a game

# Relationships

	game 1──* game_entrant
	game 1──* round
	round 1──* voting_group
	voting_group 1──* group_member
	voting_group 1──* vote
	game 1──* game_winner

All foreign keys use ON DELETE CASCADE.

# Constraints

The vote table's primary key (group_id, voter_id) is what makes duplicate
vote detection an atomic check-and-insert rather than read-then-write: the
first INSERT wins and the second fails with a uniqueness violation.

voting_group.role_holder_id is the concealed role holder used by the
hidden_role variant. It is stored but never serialized to non-privileged
readers; see the models package.
*/
package db
