// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/danielhkuo/group-verdict/models"
)

// The vote ledger. Timing is the caller's problem: votes are accepted until
// someone triggers resolution, never on a timer in here.

// CastVote records voterID's choice of targetID within the group. Under the
// immutable policy a second cast is a conflict; under the mutable policy it
// overwrites the prior vote.
func (e *Engine) CastVote(groupID string, voterID, targetID int64) (*models.Vote, error) {
	game, err := e.checkVotePreconditions(groupID, voterID, targetID)
	if err != nil {
		return nil, err
	}

	v := models.Vote{
		GroupID:     groupID,
		VoterID:     voterID,
		TargetID:    targetID,
		SubmittedAt: time.Now(),
	}

	// Atomic check-and-insert: the vote table's primary key decides the
	// race, not a prior read.
	_, err = e.db.Exec(`
		INSERT INTO vote (group_id, voter_id, target_id, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, v.GroupID, v.VoterID, v.TargetID, v.SubmittedAt)
	if err != nil {
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to insert vote: %w", err)
		}
		if game.VotePolicy == models.VotePolicyImmutable {
			return nil, conflictf("participant %d already voted in this group", voterID)
		}
		// Mutable policy: the later cast wins.
		_, err = e.db.Exec(`
			UPDATE vote SET target_id = $1, submitted_at = $2
			WHERE group_id = $3 AND voter_id = $4
		`, v.TargetID, v.SubmittedAt, v.GroupID, v.VoterID)
		if err != nil {
			return nil, fmt.Errorf("failed to update vote: %w", err)
		}
	}

	return &v, nil
}

// ChangeVote replaces an existing vote. Mutable policy only.
func (e *Engine) ChangeVote(groupID string, voterID, targetID int64) (*models.Vote, error) {
	game, err := e.checkVotePreconditions(groupID, voterID, targetID)
	if err != nil {
		return nil, err
	}
	if game.VotePolicy != models.VotePolicyMutable {
		return nil, conflictf("votes are immutable in this game")
	}

	v := models.Vote{
		GroupID:     groupID,
		VoterID:     voterID,
		TargetID:    targetID,
		SubmittedAt: time.Now(),
	}
	res, err := e.db.Exec(`
		UPDATE vote SET target_id = $1, submitted_at = $2
		WHERE group_id = $3 AND voter_id = $4
	`, v.TargetID, v.SubmittedAt, v.GroupID, v.VoterID)
	if err != nil {
		return nil, fmt.Errorf("failed to update vote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrVoteNotFound
	}

	return &v, nil
}

// ClearVote removes an existing vote so the voter can re-vote. Mutable
// policy only.
func (e *Engine) ClearVote(groupID string, voterID int64) error {
	g, round, game, err := e.groupContext(groupID)
	if err != nil {
		return err
	}
	if err := checkVotingOpen(game, round, g); err != nil {
		return err
	}
	if game.VotePolicy != models.VotePolicyMutable {
		return conflictf("votes are immutable in this game")
	}
	if !slices.Contains(g.Members, voterID) {
		return validationf("participant %d is not a member of this group", voterID)
	}

	res, err := e.db.Exec(`
		DELETE FROM vote WHERE group_id = $1 AND voter_id = $2
	`, groupID, voterID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVoteNotFound
	}
	return nil
}

func (e *Engine) checkVotePreconditions(groupID string, voterID, targetID int64) (*models.Game, error) {
	g, round, game, err := e.groupContext(groupID)
	if err != nil {
		return nil, err
	}
	if err := checkVotingOpen(game, round, g); err != nil {
		return nil, err
	}
	if !slices.Contains(g.Members, voterID) {
		return nil, validationf("participant %d is not a member of this group", voterID)
	}
	if !slices.Contains(g.Members, targetID) {
		return nil, validationf("target %d is not a member of this group", targetID)
	}
	if voterID == targetID && !game.AllowSelfVote {
		return nil, validationf("self-votes are not allowed in this game")
	}
	return game, nil
}

func checkVotingOpen(game *models.Game, round *models.Round, g *models.Group) error {
	if game.Status != models.StatusInProgress {
		return validationf("game is not in progress")
	}
	if round.Status != models.RoundVoting {
		return validationf("round %d is no longer accepting votes", round.Number)
	}
	if g.Status != models.GroupVoting {
		return validationf("group is not accepting votes")
	}
	return nil
}
