// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/engine"
	"github.com/danielhkuo/group-verdict/middleware"
	"github.com/danielhkuo/group-verdict/models"
)

type ResultsHandler struct {
	eng *engine.Engine
	cfg cliparse.Config
}

func NewResultsHandler(eng *engine.Engine, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{eng: eng, cfg: cfg}
}

// GetGame handles GET /games/:slug - the public projection of a game.
// Role holders are concealed; this is what players see.
func (h *ResultsHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	game, err := h.eng.GameBySlug(slug)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	resp := models.GameStateResponse{
		Game: models.GameView{
			ID:           game.ID,
			Title:        game.Title,
			Variant:      game.Variant,
			Status:       game.Status,
			GroupSize:    game.GroupSize,
			CurrentRound: game.CurrentRound,
			ShareSlug:    game.ShareSlug,
		},
	}

	if game.CurrentRound > 0 {
		round, err := h.eng.CurrentRound(game.ID)
		if err != nil {
			middleware.EngineError(w, err)
			return
		}
		groups, err := h.eng.RoundGroups(round.ID)
		if err != nil {
			middleware.EngineError(w, err)
			return
		}
		resp.Round = &models.RoundView{Number: round.Number, Status: round.Status}
		resp.Groups = groupViews(groups)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetOutcome handles GET /games/:id/outcome - the terminal result consumed
// by settlement and notification layers.
func (h *ResultsHandler) GetOutcome(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "game_id is required")
		return
	}

	outcome, err := h.eng.Outcome(gameID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, outcome)
}

// GetQR handles GET /games/:slug/qr - a PNG QR code of the share URL for
// passing a game around a room.
func (h *ResultsHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	// Only hand out QR codes for games that exist
	if _, err := h.eng.GameBySlug(slug); err != nil {
		middleware.EngineError(w, err)
		return
	}

	png, err := qrcode.Encode(h.cfg.BaseURL+"/games/"+slug, qrcode.Medium, 256)
	if err != nil {
		slog.Error("failed to encode QR code", "error", err, "slug", slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write QR response", "error", err)
	}
}
