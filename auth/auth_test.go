package auth

import (
	"strings"
	"testing"
)

func TestGenerateAdminKey(t *testing.T) {
	gameID := "test-game-123"
	salt := "test-salt"

	key1 := GenerateAdminKey(gameID, salt)
	key2 := GenerateAdminKey(gameID, salt)

	if key1 == "" {
		t.Error("Expected non-empty admin key")
	}
	if key1 != key2 {
		t.Error("Expected deterministic admin keys for same input")
	}

	// Different game IDs produce different keys
	other := GenerateAdminKey("other-game", salt)
	if other == key1 {
		t.Error("Expected different keys for different game IDs")
	}

	// Different salts produce different keys
	otherSalt := GenerateAdminKey(gameID, "other-salt")
	if otherSalt == key1 {
		t.Error("Expected different keys for different salts")
	}

	// URL-safe: no padding characters
	if strings.Contains(key1, "=") {
		t.Error("Expected admin key without base64 padding")
	}
}

func TestValidateAdminKey(t *testing.T) {
	gameID := "test-game-123"
	salt := "test-salt"
	key := GenerateAdminKey(gameID, salt)

	tests := []struct {
		name    string
		gameID  string
		key     string
		salt    string
		wantErr bool
	}{
		{"valid key", gameID, key, salt, false},
		{"wrong key", gameID, "bogus-key", salt, true},
		{"empty key", gameID, "", salt, true},
		{"wrong game", "other-game", key, salt, true},
		{"wrong salt", gameID, key, "other-salt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.gameID, tt.key, tt.salt)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid key, got error: %v", err)
			}
		})
	}
}

func TestGenerateShareSlug(t *testing.T) {
	slug1 := GenerateShareSlug("game-1", "slug-salt")
	slug2 := GenerateShareSlug("game-1", "slug-salt")

	if slug1 == "" {
		t.Error("Expected non-empty slug")
	}
	if slug1 != slug2 {
		t.Error("Expected deterministic slugs for same input")
	}
	if GenerateShareSlug("game-2", "slug-salt") == slug1 {
		t.Error("Expected different slugs for different games")
	}

	// Base62 only: alphanumeric, URL-friendly
	for _, c := range slug1 {
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'z'
		isUpper := c >= 'A' && c <= 'Z'
		if !isDigit && !isLower && !isUpper {
			t.Errorf("Slug contains non-base62 character: %q", c)
		}
	}
}
