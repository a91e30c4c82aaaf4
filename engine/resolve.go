// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"

	"github.com/danielhkuo/group-verdict/models"
)

// RoundOutcome summarizes one resolution pass over a round.
type RoundOutcome struct {
	Round      *models.Round
	GameStatus string
	GameEnded  bool
	GameWinner *int64
	Groups     []models.GroupOutcome
}

// ResolveRound runs the consensus algorithm once over every group in the
// round that is still voting. It evaluates whatever votes exist right now;
// it never waits for more.
//
// Groups are evaluated in group_number order. The order is load-bearing for
// the hidden-role variant: a unanimous-but-wrong group ends the whole game
// and the remaining groups stay untouched, so evaluation order decides
// which groups get recorded as resolved before the abort.
//
// Resolution is idempotent. Every group transition is conditional on the
// group still being in voting, so a racing second resolver does no-op work,
// and re-resolving a terminal round just returns the recorded outcome.
func (e *Engine) ResolveRound(roundID string) (*RoundOutcome, error) {
	round, err := e.getRound(roundID)
	if err != nil {
		return nil, err
	}
	game, err := e.getGame(round.GameID)
	if err != nil {
		return nil, err
	}

	switch game.Status {
	case models.StatusInProgress:
		// proceed
	case models.StatusSignup:
		return nil, conflictf("game has not started")
	default:
		// Terminal game: return the recorded outcome without touching
		// anything.
		return e.recordedOutcome(round, game)
	}

	variant, err := e.variants.Get(game.Variant)
	if err != nil {
		return nil, invariantf("game %s has unknown variant %q", game.ID, game.Variant)
	}

	groups, err := e.loadGroups(round.ID)
	if err != nil {
		return nil, err
	}
	votes, err := e.loadRoundVotes(round.ID)
	if err != nil {
		return nil, err
	}

	out := &RoundOutcome{Round: round, GameStatus: game.Status}
	for i := range groups {
		g := &groups[i]
		if g.Status == models.GroupVoting {
			res := resolveGroup(variant, g, votes[g.ID])
			if err := e.applyGroupResolution(g, res); err != nil {
				return nil, err
			}
		}
		out.Groups = append(out.Groups, models.GroupOutcome{
			GroupID:  g.ID,
			Number:   g.Number,
			Status:   g.Status,
			WinnerID: g.WinnerID,
		})

		if g.Status == models.GroupRoleHolderWon {
			// Role holder took the game. Stop: resolving the sibling
			// groups after the game ended would record meaningless
			// outcomes.
			winner := *g.WinnerID
			if err := e.markRoleHolderWon(game.ID, winner); err != nil {
				return nil, err
			}
			out.GameEnded = true
			out.GameStatus = models.StatusRoleHolderWon
			out.GameWinner = &winner
			break
		}
	}

	return out, nil
}

// resolveGroup is the pure consensus decision for one group: full
// participation and a single distinct target succeed, anything else fails.
func resolveGroup(v *Variant, g *models.Group, votes map[int64]int64) GroupResolution {
	if len(votes) < len(g.Members) {
		// No partial credit; one non-voter fails the whole group.
		return GroupResolution{Status: v.FailureStatus}
	}

	var target int64
	first := true
	for _, t := range votes {
		if first {
			target = t
			first = false
			continue
		}
		if t != target {
			return GroupResolution{Status: v.FailureStatus}
		}
	}

	return v.Unanimous(g, target)
}

// applyGroupResolution writes the verdict with a conditional update. Losing
// the race is fine: the winner's verdict is re-read and adopted, never
// overwritten.
func (e *Engine) applyGroupResolution(g *models.Group, res GroupResolution) error {
	result, err := e.db.Exec(`
		UPDATE voting_group SET status = $1, winner_id = $2
		WHERE id = $3 AND status = $4
	`, res.Status, res.WinnerID, g.ID, models.GroupVoting)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		fresh, err := e.getGroup(g.ID)
		if err != nil {
			return err
		}
		g.Status = fresh.Status
		g.WinnerID = fresh.WinnerID
		return nil
	}
	g.Status = res.Status
	g.WinnerID = res.WinnerID
	return nil
}

// recordedOutcome rebuilds a RoundOutcome from persisted state for a game
// that already ended.
func (e *Engine) recordedOutcome(round *models.Round, game *models.Game) (*RoundOutcome, error) {
	groups, err := e.loadGroups(round.ID)
	if err != nil {
		return nil, err
	}

	out := &RoundOutcome{
		Round:      round,
		GameStatus: game.Status,
		GameEnded:  true,
		GameWinner: game.WinnerID,
	}
	for i := range groups {
		out.Groups = append(out.Groups, models.GroupOutcome{
			GroupID:  groups[i].ID,
			Number:   groups[i].Number,
			Status:   groups[i].Status,
			WinnerID: groups[i].WinnerID,
		})
	}
	return out, nil
}
