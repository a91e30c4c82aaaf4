// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/group-verdict/models"
)

// The game supervisor lives here: game.status is written only by the
// functions in this file, always as a conditional update keyed on the
// expected prior status.

// CreateGame validates the request against the variant registry, applies
// the variant's defaults to unset fields, and inserts the game in signup.
func (e *Engine) CreateGame(req models.CreateGameRequest) (*models.Game, error) {
	if _, err := e.variants.Get(req.Variant); err != nil {
		return nil, err
	}
	defaults := e.variants.Defaults(req.Variant)

	g := models.Game{
		ID:              uuid.NewString(),
		Title:           req.Title,
		CreatorName:     req.CreatorName,
		Variant:         req.Variant,
		Status:          models.StatusSignup,
		GroupSize:       req.GroupSize,
		VerdictPolicy:   req.VerdictPolicy,
		VotePolicy:      req.VotePolicy,
		AllowSelfVote:   req.AllowSelfVote,
		FinishThreshold: req.FinishThreshold,
		CreatedAt:       time.Now(),
	}
	if g.GroupSize == 0 {
		g.GroupSize = defaults.GroupSize
	}
	if g.VerdictPolicy == "" {
		g.VerdictPolicy = defaults.VerdictPolicy
	}
	if g.VotePolicy == "" {
		g.VotePolicy = defaults.VotePolicy
	}
	if g.FinishThreshold == 0 {
		g.FinishThreshold = defaults.FinishThreshold
	}

	if g.GroupSize < 2 {
		return nil, validationf("group_size must be at least 2")
	}
	if g.VerdictPolicy != models.VerdictKeepChosen && g.VerdictPolicy != models.VerdictDropChosen {
		return nil, validationf("invalid verdict_policy %q", g.VerdictPolicy)
	}
	if g.VotePolicy != models.VotePolicyImmutable && g.VotePolicy != models.VotePolicyMutable {
		return nil, validationf("invalid vote_policy %q", g.VotePolicy)
	}
	if g.FinishThreshold < 1 {
		return nil, validationf("finish_threshold must be at least 1")
	}

	_, err := e.db.Exec(`
		INSERT INTO game (id, title, creator_name, variant, status, group_size,
			verdict_policy, vote_policy, allow_self_vote, finish_threshold,
			current_round, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, g.ID, g.Title, g.CreatorName, g.Variant, g.Status, g.GroupSize,
		g.VerdictPolicy, g.VotePolicy, boolToInt(g.AllowSelfVote),
		g.FinishThreshold, 0, g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}

	return &g, nil
}

// AddEntrants registers participants on the roster. Signup only.
func (e *Engine) AddEntrants(gameID string, participantIDs []int64) (int, error) {
	if len(participantIDs) == 0 {
		return 0, validationf("participant_ids cannot be empty")
	}

	game, err := e.getGame(gameID)
	if err != nil {
		return 0, err
	}
	if game.Status != models.StatusSignup {
		return 0, conflictf("game is no longer in signup")
	}

	now := time.Now()
	added := 0
	for _, id := range participantIDs {
		_, err := e.db.Exec(`
			INSERT INTO game_entrant (game_id, participant_id, status, joined_at)
			VALUES ($1, $2, $3, $4)
		`, gameID, id, models.EntrantActive, now)
		if err != nil {
			if isUniqueViolation(err) {
				return added, conflictf("participant %d is already an entrant", id)
			}
			return added, fmt.Errorf("failed to insert entrant: %w", err)
		}
		added++
	}

	return added, nil
}

// StartGame transitions signup -> in_progress and opens round 1 from the
// eligibility source. An optional custom assignment replaces the shuffle.
// The slug becomes the game's public handle.
func (e *Engine) StartGame(gameID, shareSlug string, custom [][]int64) (*models.Round, []models.Group, error) {
	game, err := e.getGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Status != models.StatusSignup {
		return nil, nil, conflictf("game has already started")
	}

	eligible, err := e.elig.EligibleParticipants(gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load eligible participants: %w", err)
	}
	if len(eligible) < 2 {
		return nil, nil, validationf("at least 2 entrants are required to start")
	}

	tx, err := e.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(`
		UPDATE game SET status = $1, started_at = $2, current_round = 1, share_slug = $3
		WHERE id = $4 AND status = $5
	`, models.StatusInProgress, now, shareSlug, gameID, models.StatusSignup)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, conflictf("game has already started")
	}

	round := models.Round{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Number:    1,
		Status:    models.RoundVoting,
		CreatedAt: now,
	}
	_, err = tx.Exec(`
		INSERT INTO round (id, game_id, number, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, round.ID, round.GameID, round.Number, round.Status, round.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert round: %w", err)
	}

	groups, err := e.formGroups(tx, game, round.ID, eligible, custom)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit start: %w", err)
	}

	return &round, groups, nil
}

// Settle acknowledges settlement of a normally completed game:
// completed -> settled.
func (e *Engine) Settle(gameID string) error {
	res, err := e.db.Exec(`
		UPDATE game SET status = $1 WHERE id = $2 AND status = $3
	`, models.StatusSettled, gameID, models.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to settle game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := e.getGame(gameID); err != nil {
			return err
		}
		return conflictf("only completed games can be settled")
	}
	return nil
}

// Outcome returns the read-only terminal result consumed by settlement and
// notification layers.
func (e *Engine) Outcome(gameID string) (*models.OutcomeResponse, error) {
	game, err := e.getGame(gameID)
	if err != nil {
		return nil, err
	}

	out := &models.OutcomeResponse{
		GameID:  game.ID,
		Status:  game.Status,
		Winners: []int64{},
	}
	if game.Status == models.StatusRoleHolderWon {
		out.WinnerID = game.WinnerID
		if game.WinnerID != nil {
			out.Winners = []int64{*game.WinnerID}
		}
		return out, nil
	}

	rows, err := e.db.Query(`
		SELECT participant_id FROM game_winner WHERE game_id = $1 ORDER BY participant_id
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		out.Winners = append(out.Winners, id)
	}
	return out, rows.Err()
}

// markRoleHolderWon is the supervisor transition for a role-holder victory.
// Conditional on in_progress, so a racing resolver's duplicate call is a
// no-op.
func (e *Engine) markRoleHolderWon(gameID string, winnerID int64) error {
	_, err := e.db.Exec(`
		UPDATE game SET status = $1, winner_id = $2, completed_at = $3
		WHERE id = $4 AND status = $5
	`, models.StatusRoleHolderWon, winnerID, time.Now(), gameID, models.StatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to record role holder win: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
