// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Not-found sentinels. Always terminal for the call.
var (
	ErrGameNotFound  = errors.New("game not found")
	ErrRoundNotFound = errors.New("round not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrVoteNotFound  = errors.New("vote not found")
)

// ValidationError reports a request the engine refuses on its merits:
// malformed group assignments, votes targeting outside one's group, voting
// on something that is not accepting votes. Recoverable by the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports a lost race or an out-of-order trigger: a duplicate
// immutable vote, a double resolution, advancing a round that is not fully
// terminal. Recoverable; the losing caller retries or gives up.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func conflictf(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports a programming-level bug, e.g. a group partition
// that does not cover the eligible set. Aborts the operation without partial
// writes and must never be masked.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return e.Reason }

func invariantf(format string, args ...any) error {
	return &InvariantViolation{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is any of the engine's not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrRoundNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrVoteNotFound)
}

// isUniqueViolation matches uniqueness-constraint failures from both
// supported drivers (modernc sqlite and lib/pq).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
