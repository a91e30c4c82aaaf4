// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "errors"

// Shorthands for the error-taxonomy assertions the tests repeat.

func asValidation(err error, target **ValidationError) bool {
	return errors.As(err, target)
}

func asConflict(err error, target **ConflictError) bool {
	return errors.As(err, target)
}

func asInvariant(err error, target **InvariantViolation) bool {
	return errors.As(err, target)
}
