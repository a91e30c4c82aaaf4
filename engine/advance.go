// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/group-verdict/models"
)

// NextRoundOutcome is the tournament progressor's result: either the next
// round's groups or the game's terminal winners.
type NextRoundOutcome struct {
	Finished   bool
	GameStatus string
	Winners    []int64
	Round      *models.Round
	Groups     []models.Group
}

// AdvanceRound derives the advancing set from the current round's terminal
// groups and either opens the next round or completes the game. It refuses
// to run while any group is still voting, and the round-close is a
// conditional update so a racing duplicate trigger loses cleanly.
func (e *Engine) AdvanceRound(gameID string) (*NextRoundOutcome, error) {
	game, err := e.getGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.StatusInProgress {
		return nil, conflictf("game is not in progress")
	}
	if game.CurrentRound == 0 {
		return nil, conflictf("no round is open")
	}

	round, err := e.CurrentRound(gameID)
	if err != nil {
		return nil, err
	}

	groups, err := e.loadGroups(round.ID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Status == models.GroupVoting {
			return nil, conflictf("round %d is not fully resolved", round.Number)
		}
	}

	variant, err := e.variants.Get(game.Variant)
	if err != nil {
		return nil, invariantf("game %s has unknown variant %q", game.ID, game.Variant)
	}

	// Advancing set in group order; the variant decides who survives each
	// terminal group.
	var advancing []int64
	advSet := make(map[int64]bool)
	for i := range groups {
		for _, id := range variant.Advancers(game, &groups[i]) {
			if !advSet[id] {
				advSet[id] = true
				advancing = append(advancing, id)
			}
		}
	}

	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Close the round first. A racing advance loses here and nowhere else.
	res, err := tx.Exec(`
		UPDATE round SET status = $1 WHERE id = $2 AND status = $3
	`, models.RoundCompleted, round.ID, models.RoundVoting)
	if err != nil {
		return nil, fmt.Errorf("failed to close round: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, conflictf("round %d was already advanced", round.Number)
	}

	// Roster bookkeeping: everyone in this round who is not advancing is
	// out of the tournament for good.
	for i := range groups {
		for _, id := range groups[i].Members {
			if advSet[id] {
				continue
			}
			_, err := tx.Exec(`
				UPDATE game_entrant SET status = $1
				WHERE game_id = $2 AND participant_id = $3
			`, models.EntrantEliminated, gameID, id)
			if err != nil {
				return nil, fmt.Errorf("failed to eliminate entrant: %w", err)
			}
		}
	}

	now := time.Now()
	if len(advancing) <= game.FinishThreshold {
		// Stopping condition met: the advancing set are the winners.
		result, err := tx.Exec(`
			UPDATE game SET status = $1, completed_at = $2
			WHERE id = $3 AND status = $4
		`, models.StatusCompleted, now, gameID, models.StatusInProgress)
		if err != nil {
			return nil, fmt.Errorf("failed to complete game: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return nil, conflictf("game is not in progress")
		}
		for _, id := range advancing {
			_, err := tx.Exec(`
				INSERT INTO game_winner (game_id, participant_id)
				VALUES ($1, $2)
			`, gameID, id)
			if err != nil {
				return nil, fmt.Errorf("failed to insert winner: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit advance: %w", err)
		}
		return &NextRoundOutcome{
			Finished:   true,
			GameStatus: models.StatusCompleted,
			Winners:    advancing,
		}, nil
	}

	next := models.Round{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Number:    round.Number + 1,
		Status:    models.RoundVoting,
		CreatedAt: now,
	}
	_, err = tx.Exec(`
		INSERT INTO round (id, game_id, number, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, next.ID, next.GameID, next.Number, next.Status, next.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert round: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE game SET current_round = $1 WHERE id = $2
	`, next.Number, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to bump round counter: %w", err)
	}

	nextGroups, err := e.formGroups(tx, game, next.ID, advancing, nil)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit advance: %w", err)
	}

	return &NextRoundOutcome{
		GameStatus: models.StatusInProgress,
		Round:      &next,
		Groups:     nextGroups,
	}, nil
}
