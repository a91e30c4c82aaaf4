// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the group-verdict API server.

group-verdict runs elimination-style social tournaments: participants are
shuffled into small voting groups each round, a group survives only by
voting unanimously, and rounds repeat until the winners remain. Two
variants ship built in - plain elimination and a hidden-role game where a
concealed adversary can steal the whole tournament.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:verdict.db go run .

Or with flags:

	go run . -p 3419 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - GAME_SLUG_SALT (-slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3419)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - VARIANTS_FILE (-variants): YAML file overriding variant defaults
  - BASE_URL (-base-url): Public base URL for share links

# Architecture

The server wraps a library-level state machine with thin HTTP glue:

  - engine: the group-consensus elimination engine (the interesting part)
  - handlers: HTTP request handlers (games, voting, admin triggers, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, engine error mapping
  - models: Request/response and domain types
  - auth: Admin key and share slug generation
  - db: Schema creation
  - cliparse: Configuration parsing

A companion admin CLI lives in cmd/verdictctl.

See package documentation for each component.
*/
package main
