// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/group-verdict/auth"
	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/engine"
	"github.com/danielhkuo/group-verdict/middleware"
	"github.com/danielhkuo/group-verdict/models"
)

// AdminHandler exposes the resolution and progression triggers. The engine
// never fires these itself; an administrator or a scheduled sweep decides
// when a round's time is up.
type AdminHandler struct {
	eng *engine.Engine
	cfg cliparse.Config
}

func NewAdminHandler(eng *engine.Engine, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{eng: eng, cfg: cfg}
}

// ResolveRound handles POST /games/:id/resolve
func (h *AdminHandler) ResolveRound(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "game_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(gameID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	round, err := h.eng.CurrentRound(gameID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	outcome, err := h.eng.ResolveRound(round.ID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("round resolved",
		"game_id", gameID,
		"round", round.Number,
		"game_ended", outcome.GameEnded,
	)

	middleware.JSONResponse(w, http.StatusOK, models.ResolveRoundResponse{
		RoundNumber: outcome.Round.Number,
		RoundName:   humanize.Ordinal(outcome.Round.Number) + " round",
		GameEnded:   outcome.GameEnded,
		GameStatus:  outcome.GameStatus,
		Groups:      outcome.Groups,
	})
}

// AdvanceRound handles POST /games/:id/advance
func (h *AdminHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "game_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(gameID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	next, err := h.eng.AdvanceRound(gameID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	resp := models.AdvanceRoundResponse{
		Finished:   next.Finished,
		GameStatus: next.GameStatus,
		Winners:    next.Winners,
	}
	if next.Round != nil {
		resp.RoundNumber = next.Round.Number
		resp.RoundName = humanize.Ordinal(next.Round.Number) + " round"
		resp.Groups = groupViews(next.Groups)
	}

	slog.Info("round advanced",
		"game_id", gameID,
		"finished", next.Finished,
		"status", next.GameStatus,
	)

	middleware.JSONResponse(w, http.StatusOK, resp)
}
