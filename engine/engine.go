// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/group-verdict/models"
)

// Engine is the group-consensus elimination state machine. It owns every
// game, round, group, and vote transition; callers wrap it in whatever
// transport they like.
type Engine struct {
	db       *sql.DB
	variants *VariantSet
	elig     EligibilitySource
}

// New creates an engine over the given database. The roster table serves as
// the default eligibility source.
func New(db *sql.DB, variants *VariantSet) *Engine {
	return &Engine{
		db:       db,
		variants: variants,
		elig:     &rosterSource{db: db},
	}
}

// WithEligibility swaps the eligibility source. Used by hosts that keep
// their tournament roster elsewhere.
func (e *Engine) WithEligibility(src EligibilitySource) *Engine {
	e.elig = src
	return e
}

// Variants exposes the variant registry for callers that need defaults.
func (e *Engine) Variants() *VariantSet {
	return e.variants
}

const gameColumns = `id, title, creator_name, variant, status, group_size,
	verdict_policy, vote_policy, allow_self_vote, finish_threshold,
	current_round, share_slug, winner_id, created_at, started_at, completed_at`

func scanGame(row *sql.Row) (*models.Game, error) {
	var g models.Game
	var selfVote int
	err := row.Scan(&g.ID, &g.Title, &g.CreatorName, &g.Variant, &g.Status,
		&g.GroupSize, &g.VerdictPolicy, &g.VotePolicy, &selfVote,
		&g.FinishThreshold, &g.CurrentRound, &g.ShareSlug, &g.WinnerID,
		&g.CreatedAt, &g.StartedAt, &g.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	g.AllowSelfVote = selfVote != 0
	return &g, nil
}

func (e *Engine) getGame(gameID string) (*models.Game, error) {
	return scanGame(e.db.QueryRow(`SELECT `+gameColumns+` FROM game WHERE id = $1`, gameID))
}

// GameBySlug resolves a game through its public share slug.
func (e *Engine) GameBySlug(slug string) (*models.Game, error) {
	return scanGame(e.db.QueryRow(`SELECT `+gameColumns+` FROM game WHERE share_slug = $1`, slug))
}

func (e *Engine) getRound(roundID string) (*models.Round, error) {
	var r models.Round
	err := e.db.QueryRow(`
		SELECT id, game_id, number, status, created_at FROM round WHERE id = $1
	`, roundID).Scan(&r.ID, &r.GameID, &r.Number, &r.Status, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return &r, nil
}

// CurrentRound returns the game's round numbered game.current_round.
func (e *Engine) CurrentRound(gameID string) (*models.Round, error) {
	var r models.Round
	err := e.db.QueryRow(`
		SELECT r.id, r.game_id, r.number, r.status, r.created_at
		FROM round r JOIN game g ON r.game_id = g.id
		WHERE g.id = $1 AND r.number = g.current_round
	`, gameID).Scan(&r.ID, &r.GameID, &r.Number, &r.Status, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return &r, nil
}

// loadGroups returns the round's groups in group_number order, members
// attached. The order matters: the resolver's early exit makes evaluation
// order observable, so it must be deterministic.
func (e *Engine) loadGroups(roundID string) ([]models.Group, error) {
	rows, err := e.db.Query(`
		SELECT id, round_id, group_number, status, winner_id, role_holder_id
		FROM voting_group WHERE round_id = $1 ORDER BY group_number
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	index := make(map[string]int)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.RoundID, &g.Number, &g.Status, &g.WinnerID, &g.RoleHolderID); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := e.db.Query(`
		SELECT gm.group_id, gm.participant_id
		FROM group_member gm JOIN voting_group vg ON gm.group_id = vg.id
		WHERE vg.round_id = $1
		ORDER BY gm.group_id, gm.participant_id
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupID string
		var participantID int64
		if err := memberRows.Scan(&groupID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].Members = append(groups[i].Members, participantID)
		}
	}
	return groups, memberRows.Err()
}

// RoundGroups returns the round's groups in evaluation order, for read-only
// callers building views.
func (e *Engine) RoundGroups(roundID string) ([]models.Group, error) {
	return e.loadGroups(roundID)
}

func (e *Engine) getGroup(groupID string) (*models.Group, error) {
	var g models.Group
	err := e.db.QueryRow(`
		SELECT id, round_id, group_number, status, winner_id, role_holder_id
		FROM voting_group WHERE id = $1
	`, groupID).Scan(&g.ID, &g.RoundID, &g.Number, &g.Status, &g.WinnerID, &g.RoleHolderID)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}

	rows, err := e.db.Query(`
		SELECT participant_id FROM group_member WHERE group_id = $1 ORDER BY participant_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		g.Members = append(g.Members, id)
	}
	return &g, rows.Err()
}

// groupContext loads a group together with its round and game, the full
// chain every vote precondition needs.
func (e *Engine) groupContext(groupID string) (*models.Group, *models.Round, *models.Game, error) {
	g, err := e.getGroup(groupID)
	if err != nil {
		return nil, nil, nil, err
	}
	r, err := e.getRound(g.RoundID)
	if err != nil {
		return nil, nil, nil, err
	}
	game, err := e.getGame(r.GameID)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, r, game, nil
}

// loadRoundVotes returns voter -> target maps keyed by group id for every
// group in the round.
func (e *Engine) loadRoundVotes(roundID string) (map[string]map[int64]int64, error) {
	rows, err := e.db.Query(`
		SELECT v.group_id, v.voter_id, v.target_id
		FROM vote v JOIN voting_group vg ON v.group_id = vg.id
		WHERE vg.round_id = $1
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[string]map[int64]int64)
	for rows.Next() {
		var groupID string
		var voterID, targetID int64
		if err := rows.Scan(&groupID, &voterID, &targetID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		if votes[groupID] == nil {
			votes[groupID] = make(map[int64]int64)
		}
		votes[groupID][voterID] = targetID
	}
	return votes, rows.Err()
}
