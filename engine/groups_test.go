// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"strings"
	"testing"

	"github.com/danielhkuo/group-verdict/models"
	"github.com/danielhkuo/group-verdict/testutil"
)

func TestStartGameCustomAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{GroupSize: 3})
	testutil.AddTestEntrants(t, db, gameID, 1, 2, 3, 4, 5, 6)

	custom := [][]int64{{1, 3, 5}, {2, 4, 6}}
	_, groups, err := eng.StartGame(gameID, "custom-slug", custom)
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Members[0] != 1 || groups[0].Members[1] != 3 || groups[0].Members[2] != 5 {
		t.Errorf("Group 1 members %v, expected [1 3 5]", groups[0].Members)
	}
	if groups[1].Members[0] != 2 || groups[1].Members[1] != 4 || groups[1].Members[2] != 6 {
		t.Errorf("Group 2 members %v, expected [2 4 6]", groups[1].Members)
	}
}

func TestStartGameCustomAssignmentValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	tests := []struct {
		name    string
		custom  [][]int64
		wantMsg string
	}{
		{
			name:    "empty group",
			custom:  [][]int64{{1, 2}, {}},
			wantMsg: "empty",
		},
		{
			name:    "participant not eligible",
			custom:  [][]int64{{1, 2}, {3, 99}},
			wantMsg: "99",
		},
		{
			name:    "participant appears twice",
			custom:  [][]int64{{1, 2}, {2, 3}},
			wantMsg: "2",
		},
		{
			name:    "eligible participant omitted",
			custom:  [][]int64{{1, 2, 3}},
			wantMsg: "4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{GroupSize: 2})
			testutil.AddTestEntrants(t, db, gameID, 1, 2, 3, 4)

			_, _, err := eng.StartGame(gameID, "slug-"+tt.name, tt.custom)
			var verr *ValidationError
			if !asValidation(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if !strings.Contains(verr.Reason, tt.wantMsg) {
				t.Errorf("Expected error naming %q, got: %s", tt.wantMsg, verr.Reason)
			}

			// The failed start must not leave a half-started game behind
			var status string
			if err := db.QueryRow(`SELECT status FROM game WHERE id = $1`, gameID).Scan(&status); err != nil {
				t.Fatalf("Failed to query game: %v", err)
			}
			if status != models.StatusSignup {
				t.Errorf("Expected game still in signup after failed start, got %s", status)
			}
		})
	}
}

func TestStartGameRemainderGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	// 7 entrants at group size 3: two full groups plus a singleton.
	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{GroupSize: 3})
	testutil.AddTestEntrants(t, db, gameID, 1, 2, 3, 4, 5, 6, 7)

	_, groups, err := eng.StartGame(gameID, "remainder", nil)
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	last := groups[len(groups)-1]
	if len(last.Members) != 1 {
		t.Fatalf("Expected singleton remainder group, got %d members", len(last.Members))
	}
	// A single-member group cannot hold a vote; it is completed on the spot
	// and its sole member advances unopposed.
	if last.Status != models.GroupCompleted {
		t.Errorf("Expected singleton group completed, got %s", last.Status)
	}
	if last.WinnerID == nil || *last.WinnerID != last.Members[0] {
		t.Error("Expected singleton group's sole member recorded as its winner")
	}
}

func TestStartGameHiddenRoleAssignsRoleHolders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	eng := New(db, DefaultVariants())

	gameID, _, _ := testutil.CreateTestGame(t, db, cfg, testutil.GameOptions{
		Variant:    models.VariantHiddenRole,
		GroupSize:  3,
		VotePolicy: models.VotePolicyMutable,
	})
	testutil.AddTestEntrants(t, db, gameID, 1, 2, 3, 4, 5, 6)

	_, groups, err := eng.StartGame(gameID, "hidden", nil)
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	for _, g := range groups {
		if g.RoleHolderID == nil {
			t.Errorf("Group %d has no role holder", g.Number)
			continue
		}
		found := false
		for _, id := range g.Members {
			if id == *g.RoleHolderID {
				found = true
			}
		}
		if !found {
			t.Errorf("Group %d role holder %d is not one of its members %v", g.Number, *g.RoleHolderID, g.Members)
		}
	}
}
