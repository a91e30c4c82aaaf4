// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/danielhkuo/group-verdict/models"
)

// formGroups partitions the eligible set into voting groups of
// game.GroupSize and persists them under roundID, all inside the caller's
// transaction. A custom assignment replaces the shuffle when provided. A
// trailing remainder group of size 1 is born completed with its sole member
// as winner; it never enters voting. Hidden-role groups of size 2+ get a
// uniformly random concealed role holder.
func (e *Engine) formGroups(tx *sql.Tx, game *models.Game, roundID string, eligible []int64, custom [][]int64) ([]models.Group, error) {
	if len(eligible) == 0 {
		return nil, validationf("no eligible participants to group")
	}

	var partition [][]int64
	if custom != nil {
		if err := validateAssignment(custom, eligible); err != nil {
			return nil, err
		}
		partition = custom
	} else {
		shuffled := slices.Clone(eligible)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for chunk := range slices.Chunk(shuffled, game.GroupSize) {
			partition = append(partition, chunk)
		}
	}

	// The partition must cover the eligible set exactly. For the shuffle
	// path a mismatch is a bug, not bad input; fail loudly.
	if err := checkPartition(partition, eligible); err != nil {
		return nil, err
	}

	groups := make([]models.Group, 0, len(partition))
	for i, members := range partition {
		g := models.Group{
			ID:      uuid.NewString(),
			RoundID: roundID,
			Number:  i + 1,
			Status:  models.GroupVoting,
			Members: slices.Clone(members),
		}
		if len(members) == 1 {
			sole := members[0]
			g.Status = models.GroupCompleted
			g.WinnerID = &sole
		} else if game.Variant == models.VariantHiddenRole {
			holder := members[rand.IntN(len(members))]
			g.RoleHolderID = &holder
		}

		_, err := tx.Exec(`
			INSERT INTO voting_group (id, round_id, group_number, status, winner_id, role_holder_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, g.ID, g.RoundID, g.Number, g.Status, g.WinnerID, g.RoleHolderID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert group: %w", err)
		}

		for _, id := range g.Members {
			_, err := tx.Exec(`
				INSERT INTO group_member (group_id, participant_id)
				VALUES ($1, $2)
			`, g.ID, id)
			if err != nil {
				return nil, fmt.Errorf("failed to insert group member: %w", err)
			}
		}

		groups = append(groups, g)
	}

	return groups, nil
}

// validateAssignment checks a caller-supplied partition against the
// eligible set. Violations name the offending participant.
func validateAssignment(assignment [][]int64, eligible []int64) error {
	eligibleSet := make(map[int64]bool, len(eligible))
	for _, id := range eligible {
		eligibleSet[id] = true
	}

	seen := make(map[int64]bool)
	for _, group := range assignment {
		if len(group) == 0 {
			return validationf("assignment contains an empty group")
		}
		for _, id := range group {
			if !eligibleSet[id] {
				return validationf("participant %d is not eligible for this round", id)
			}
			if seen[id] {
				return validationf("participant %d appears in more than one group", id)
			}
			seen[id] = true
		}
	}

	for _, id := range eligible {
		if !seen[id] {
			return validationf("participant %d is missing from the assignment", id)
		}
	}

	return nil
}

// checkPartition verifies the partition invariant: every eligible id in
// exactly one group, nobody extra. A failure here is an InvariantViolation.
func checkPartition(partition [][]int64, eligible []int64) error {
	seen := make(map[int64]bool, len(eligible))
	total := 0
	for _, group := range partition {
		for _, id := range group {
			if seen[id] {
				return invariantf("partition places participant %d in two groups", id)
			}
			seen[id] = true
			total++
		}
	}
	if total != len(eligible) {
		return invariantf("partition covers %d participants, eligible set has %d", total, len(eligible))
	}
	for _, id := range eligible {
		if !seen[id] {
			return invariantf("partition omits participant %d", id)
		}
	}
	return nil
}
