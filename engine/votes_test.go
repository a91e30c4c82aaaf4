// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/models"
	"github.com/danielhkuo/group-verdict/testutil"
)

// liveGroup builds an in-progress game with one voting group of the given
// members and returns the group ID.
func liveGroup(t *testing.T, db *sql.DB, cfg cliparse.Config, opts testutil.GameOptions, members []int64) string {
	t.Helper()

	if opts.Status == "" {
		opts.Status = models.StatusInProgress
	}
	if opts.CurrentRound == 0 {
		opts.CurrentRound = 1
	}
	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, opts)
	testutil.AddTestEntrants(t, db, gameID, members...)
	roundID := testutil.CreateTestRound(t, db, gameID, 1, models.RoundVoting)
	return testutil.CreateTestGroup(t, db, roundID, 1, models.GroupVoting, members, nil)
}

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{}, []int64{1, 2, 3})

	v, err := eng.CastVote(groupID, 1, 2)
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if v.TargetID != 2 {
		t.Errorf("Expected target 2, got %d", v.TargetID)
	}

	var target int64
	if err := db.QueryRow(`SELECT target_id FROM vote WHERE group_id = $1 AND voter_id = $2`, groupID, int64(1)).Scan(&target); err != nil {
		t.Fatalf("Failed to query vote: %v", err)
	}
	if target != 2 {
		t.Errorf("Expected persisted target 2, got %d", target)
	}
}

func TestCastVotePreconditions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{}, []int64{1, 2, 3})

	tests := []struct {
		name    string
		voter   int64
		target  int64
		wantErr string
	}{
		{"voter not a member", 9, 1, "not a member"},
		{"target not a member", 1, 9, "not a member"},
		{"self vote disallowed by default", 1, 1, "self-votes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CastVote(groupID, tt.voter, tt.target)
			var verr *ValidationError
			if !asValidation(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
		})
	}

	// Unknown group
	_, err := eng.CastVote("nonexistent", 1, 2)
	if !IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestCastVoteSelfVoteAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{AllowSelfVote: true}, []int64{1, 2, 3})

	if _, err := eng.CastVote(groupID, 1, 1); err != nil {
		t.Errorf("Expected self-vote to succeed when allowed, got %v", err)
	}
}

func TestCastVoteImmutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{VotePolicy: models.VotePolicyImmutable}, []int64{1, 2, 3})

	if _, err := eng.CastVote(groupID, 1, 2); err != nil {
		t.Fatalf("First cast failed: %v", err)
	}

	// Second cast is rejected and the original vote stands
	_, err := eng.CastVote(groupID, 1, 3)
	var cerr *ConflictError
	if !asConflict(err, &cerr) {
		t.Fatalf("Expected ConflictError on second cast, got %T: %v", err, err)
	}

	var target int64
	if err := db.QueryRow(`SELECT target_id FROM vote WHERE group_id = $1 AND voter_id = $2`, groupID, int64(1)).Scan(&target); err != nil {
		t.Fatalf("Failed to query vote: %v", err)
	}
	if target != 2 {
		t.Errorf("Expected original target 2 preserved, got %d", target)
	}

	// ChangeVote and ClearVote are refused outright
	if _, err := eng.ChangeVote(groupID, 1, 3); !asConflict(err, &cerr) {
		t.Errorf("Expected ConflictError from ChangeVote, got %T: %v", err, err)
	}
	if err := eng.ClearVote(groupID, 1); !asConflict(err, &cerr) {
		t.Errorf("Expected ConflictError from ClearVote, got %T: %v", err, err)
	}
}

func TestCastVoteMutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{VotePolicy: models.VotePolicyMutable}, []int64{1, 2, 3})

	if _, err := eng.CastVote(groupID, 1, 2); err != nil {
		t.Fatalf("First cast failed: %v", err)
	}
	// Re-casting overwrites
	if _, err := eng.CastVote(groupID, 1, 3); err != nil {
		t.Fatalf("Second cast failed: %v", err)
	}

	var target int64
	if err := db.QueryRow(`SELECT target_id FROM vote WHERE group_id = $1 AND voter_id = $2`, groupID, int64(1)).Scan(&target); err != nil {
		t.Fatalf("Failed to query vote: %v", err)
	}
	if target != 3 {
		t.Errorf("Expected overwritten target 3, got %d", target)
	}

	// There is still exactly one vote row for the voter
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE group_id = $1 AND voter_id = $2`, groupID, int64(1)).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote row, got %d", count)
	}
}

func TestChangeVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{VotePolicy: models.VotePolicyMutable}, []int64{1, 2, 3})

	// Changing a vote that was never cast
	if _, err := eng.ChangeVote(groupID, 1, 2); err != ErrVoteNotFound {
		t.Errorf("Expected ErrVoteNotFound, got %v", err)
	}

	if _, err := eng.CastVote(groupID, 1, 2); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if _, err := eng.ChangeVote(groupID, 1, 3); err != nil {
		t.Fatalf("ChangeVote failed: %v", err)
	}

	var target int64
	if err := db.QueryRow(`SELECT target_id FROM vote WHERE group_id = $1 AND voter_id = $2`, groupID, int64(1)).Scan(&target); err != nil {
		t.Fatalf("Failed to query vote: %v", err)
	}
	if target != 3 {
		t.Errorf("Expected changed target 3, got %d", target)
	}
}

func TestClearVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	groupID := liveGroup(t, db, cfg, testutil.GameOptions{VotePolicy: models.VotePolicyMutable}, []int64{1, 2, 3})

	if err := eng.ClearVote(groupID, 1); err != ErrVoteNotFound {
		t.Errorf("Expected ErrVoteNotFound for missing vote, got %v", err)
	}

	if _, err := eng.CastVote(groupID, 1, 2); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if err := eng.ClearVote(groupID, 1); err != nil {
		t.Fatalf("ClearVote failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE group_id = $1 AND voter_id = $2`, groupID, int64(1)).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected vote removed, found %d rows", count)
	}
}

func TestVotingClosedStates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	// Group already resolved
	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{
		Status:       models.StatusInProgress,
		CurrentRound: 1,
	})
	roundID := testutil.CreateTestRound(t, db, gameID, 1, models.RoundVoting)
	resolved := testutil.CreateTestGroup(t, db, roundID, 1, models.GroupEliminated, []int64{1, 2, 3}, nil)

	_, err := eng.CastVote(resolved, 1, 2)
	var verr *ValidationError
	if !asValidation(err, &verr) {
		t.Errorf("Expected ValidationError for resolved group, got %T: %v", err, err)
	}

	// Round already advanced
	closedRound := testutil.CreateTestRound(t, db, gameID, 2, models.RoundCompleted)
	stale := testutil.CreateTestGroup(t, db, closedRound, 1, models.GroupVoting, []int64{1, 2, 3}, nil)
	if _, err := eng.CastVote(stale, 1, 2); !asValidation(err, &verr) {
		t.Errorf("Expected ValidationError for completed round, got %T: %v", err, err)
	}

	// Game already over
	doneID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{
		Status:       models.StatusCompleted,
		CurrentRound: 1,
	})
	doneRound := testutil.CreateTestRound(t, db, doneID, 1, models.RoundVoting)
	doneGroup := testutil.CreateTestGroup(t, db, doneRound, 1, models.GroupVoting, []int64{1, 2, 3}, nil)
	if _, err := eng.CastVote(doneGroup, 1, 2); !asValidation(err, &verr) {
		t.Errorf("Expected ValidationError for completed game, got %T: %v", err, err)
	}
}
