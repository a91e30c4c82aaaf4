// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"testing"

	"github.com/danielhkuo/group-verdict/models"
	"github.com/danielhkuo/group-verdict/testutil"
)

func TestGameBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	gameID, _, slug := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{
		Status:       models.StatusInProgress,
		CurrentRound: 1,
	})

	game, err := eng.GameBySlug(slug)
	if err != nil {
		t.Fatalf("GameBySlug failed: %v", err)
	}
	if game.ID != gameID {
		t.Errorf("Expected game %s, got %s", gameID, game.ID)
	}

	if _, err := eng.GameBySlug("nonexistent"); !IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestCurrentRound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{
		Status:       models.StatusInProgress,
		CurrentRound: 2,
	})
	testutil.CreateTestRound(t, db, gameID, 1, models.RoundCompleted)
	r2 := testutil.CreateTestRound(t, db, gameID, 2, models.RoundVoting)

	round, err := eng.CurrentRound(gameID)
	if err != nil {
		t.Fatalf("CurrentRound failed: %v", err)
	}
	if round.ID != r2 {
		t.Errorf("Expected round %s, got %s", r2, round.ID)
	}
	if round.Number != 2 {
		t.Errorf("Expected round number 2, got %d", round.Number)
	}

	// A game still in signup has no round
	signupID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{})
	if _, err := eng.CurrentRound(signupID); !IsNotFound(err) {
		t.Errorf("Expected not-found error for signup game, got %v", err)
	}
}

func TestRoundGroupsOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{
		Status:       models.StatusInProgress,
		CurrentRound: 1,
	})
	roundID := testutil.CreateTestRound(t, db, gameID, 1, models.RoundVoting)

	// Inserted out of order on purpose
	testutil.CreateTestGroup(t, db, roundID, 3, models.GroupVoting, []int64{7, 8, 9}, nil)
	testutil.CreateTestGroup(t, db, roundID, 1, models.GroupVoting, []int64{1, 2, 3}, nil)
	testutil.CreateTestGroup(t, db, roundID, 2, models.GroupVoting, []int64{4, 5, 6}, nil)

	groups, err := eng.RoundGroups(roundID)
	if err != nil {
		t.Fatalf("RoundGroups failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	for i, g := range groups {
		if g.Number != i+1 {
			t.Errorf("Position %d holds group number %d", i, g.Number)
		}
		if len(g.Members) != 3 {
			t.Errorf("Group %d has %d members, expected 3", g.Number, len(g.Members))
		}
	}
	if groups[0].Members[0] != 1 {
		t.Errorf("Expected group 1 to start with member 1, got %d", groups[0].Members[0])
	}
}
