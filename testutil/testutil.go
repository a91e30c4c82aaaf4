// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/group-verdict/auth"
	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/db"
	"github.com/danielhkuo/group-verdict/models"
)

// SetupTestDB creates a fresh sqlite database under the test's temp
// directory with the full schema. No external server required.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "verdict_test.db")
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One writer at a time keeps sqlite happy under concurrent tests;
	// contention resolves in the pool instead of as SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3419,
		DatabaseURL:  "file:unused.db",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
		GameSlugSalt: "test-slug-salt",
		BaseURL:      "http://localhost:3419",
	}
}

// GameOptions tweaks CreateTestGame fixtures.
type GameOptions struct {
	Variant         string
	Status          string
	GroupSize       int
	VerdictPolicy   string
	VotePolicy      string
	AllowSelfVote   bool
	FinishThreshold int
	CurrentRound    int
}

// CreateTestGame inserts a game row and returns its ID, admin key, and
// share slug (set whenever the game has left signup).
func CreateTestGame(t *testing.T, conn *sql.DB, cfg cliparse.Config, opts GameOptions) (gameID, adminKey, shareSlug string) {
	t.Helper()

	if opts.Variant == "" {
		opts.Variant = models.VariantElimination
	}
	if opts.Status == "" {
		opts.Status = models.StatusSignup
	}
	if opts.GroupSize == 0 {
		opts.GroupSize = 3
	}
	if opts.VerdictPolicy == "" {
		opts.VerdictPolicy = models.VerdictKeepChosen
	}
	if opts.VotePolicy == "" {
		opts.VotePolicy = models.VotePolicyImmutable
	}
	if opts.FinishThreshold == 0 {
		opts.FinishThreshold = 1
	}

	gameID = uuid.NewString()
	adminKey = auth.GenerateAdminKey(gameID, cfg.AdminKeySalt)

	var slug *string
	var startedAt *time.Time
	if opts.Status != models.StatusSignup {
		s := auth.GenerateShareSlug(gameID, cfg.GameSlugSalt)
		slug = &s
		shareSlug = s
		now := time.Now()
		startedAt = &now
	}

	selfVote := 0
	if opts.AllowSelfVote {
		selfVote = 1
	}

	_, err := conn.Exec(`
		INSERT INTO game (id, title, creator_name, variant, status, group_size,
			verdict_policy, vote_policy, allow_self_vote, finish_threshold,
			current_round, share_slug, created_at, started_at)
		VALUES ($1, 'Test Game', 'TestUser', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, gameID, opts.Variant, opts.Status, opts.GroupSize, opts.VerdictPolicy,
		opts.VotePolicy, selfVote, opts.FinishThreshold, opts.CurrentRound,
		slug, time.Now(), startedAt)
	if err != nil {
		t.Fatalf("Failed to create test game: %v", err)
	}

	return gameID, adminKey, shareSlug
}

// AddTestEntrants puts participants on a game's roster.
func AddTestEntrants(t *testing.T, conn *sql.DB, gameID string, participantIDs ...int64) {
	t.Helper()

	for _, id := range participantIDs {
		_, err := conn.Exec(`
			INSERT INTO game_entrant (game_id, participant_id, status, joined_at)
			VALUES ($1, $2, $3, $4)
		`, gameID, id, models.EntrantActive, time.Now())
		if err != nil {
			t.Fatalf("Failed to create test entrant %d: %v", id, err)
		}
	}
}

// CreateTestRound inserts a round row and returns its ID.
func CreateTestRound(t *testing.T, conn *sql.DB, gameID string, number int, status string) string {
	t.Helper()

	roundID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO round (id, game_id, number, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, roundID, gameID, number, status, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test round: %v", err)
	}

	return roundID
}

// CreateTestGroup inserts a voting group with members and returns its ID.
// roleHolder may be nil for the plain variant.
func CreateTestGroup(t *testing.T, conn *sql.DB, roundID string, number int, status string, members []int64, roleHolder *int64) string {
	t.Helper()

	groupID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO voting_group (id, round_id, group_number, status, role_holder_id)
		VALUES ($1, $2, $3, $4, $5)
	`, groupID, roundID, number, status, roleHolder)
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}

	for _, id := range members {
		_, err := conn.Exec(`
			INSERT INTO group_member (group_id, participant_id)
			VALUES ($1, $2)
		`, groupID, id)
		if err != nil {
			t.Fatalf("Failed to create test group member: %v", err)
		}
	}

	return groupID
}

// CastTestVote inserts a vote row directly.
func CastTestVote(t *testing.T, conn *sql.DB, groupID string, voterID, targetID int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (group_id, voter_id, target_id, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, groupID, voterID, targetID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
