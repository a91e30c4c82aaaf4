// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/group-verdict/models"
)

// EligibilitySource supplies the participants allowed into a game's first
// round. The engine consumes it and never mutates it.
type EligibilitySource interface {
	EligibleParticipants(gameID string) ([]int64, error)
}

// rosterSource is the default EligibilitySource: the game_entrant table,
// filtered to active entrants.
type rosterSource struct {
	db *sql.DB
}

func (s *rosterSource) EligibleParticipants(gameID string) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT participant_id FROM game_entrant
		WHERE game_id = $1 AND status = $2
		ORDER BY participant_id
	`, gameID, models.EntrantActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
