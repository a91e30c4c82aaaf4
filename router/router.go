// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/engine"
	"github.com/danielhkuo/group-verdict/handlers"
	"github.com/danielhkuo/group-verdict/middleware"
)

func NewRouter(eng *engine.Engine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(eng, cfg)
	votingHandler := handlers.NewVotingHandler(eng, cfg)
	adminHandler := handlers.NewAdminHandler(eng, cfg)
	resultsHandler := handlers.NewResultsHandler(eng, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Game lifecycle (admin operations)
	mux.HandleFunc("POST /games", middleware.WithLogging(gameHandler.CreateGame))
	mux.HandleFunc("POST /games/{id}/entrants", middleware.WithLogging(gameHandler.AddEntrants))
	mux.HandleFunc("POST /games/{id}/start", middleware.WithLogging(gameHandler.StartGame))
	mux.HandleFunc("POST /games/{id}/settle", middleware.WithLogging(gameHandler.SettleGame))

	// Round triggers (admin/scheduler operations)
	mux.HandleFunc("POST /games/{id}/resolve", middleware.WithLogging(adminHandler.ResolveRound))
	mux.HandleFunc("POST /games/{id}/advance", middleware.WithLogging(adminHandler.AdvanceRound))

	// Voting operations (participant-facing)
	mux.HandleFunc("POST /groups/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("PUT /groups/{id}/votes", middleware.WithLogging(votingHandler.ChangeVote))
	mux.HandleFunc("DELETE /groups/{id}/votes", middleware.WithLogging(votingHandler.ClearVote))

	// Read surface
	mux.HandleFunc("GET /games/{slug}", middleware.WithLogging(resultsHandler.GetGame))
	mux.HandleFunc("GET /games/{slug}/qr", middleware.WithLogging(resultsHandler.GetQR))
	mux.HandleFunc("GET /games/{id}/outcome", middleware.WithLogging(resultsHandler.GetOutcome))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("group-verdict API v1"))
	})

	return mux
}
