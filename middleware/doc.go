// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Helpers

  - WithLogging: request/completion logging via slog
  - JSONResponse / ErrorResponse: JSON writers
  - EngineError: maps the engine's error taxonomy to HTTP statuses
  - ParseJSONBody: request body decoding
  - CORS: cross-origin support with preflight handling

# Error Mapping

EngineError keeps the status-code policy in one place:

	engine.ValidationError    -> 400 Bad Request
	engine.ConflictError      -> 409 Conflict
	engine not-found sentinel -> 404 Not Found
	engine.InvariantViolation -> 500 Internal Server Error (logged)
	anything else             -> 500 Internal Server Error (logged)

Conflicts from idempotent races (double resolution, duplicate advance) are
expected and carry a message the caller can surface or ignore.
*/
package middleware
