// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/group-verdict/auth"
	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/engine"
	"github.com/danielhkuo/group-verdict/middleware"
	"github.com/danielhkuo/group-verdict/models"
)

type GameHandler struct {
	eng *engine.Engine
	cfg cliparse.Config
}

func NewGameHandler(eng *engine.Engine, cfg cliparse.Config) *GameHandler {
	return &GameHandler{eng: eng, cfg: cfg}
}

// CreateGame handles POST /games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}
	if req.Variant == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "variant is required")
		return
	}

	game, err := h.eng.CreateGame(req)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	adminKey := auth.GenerateAdminKey(game.ID, h.cfg.AdminKeySalt)

	slog.Info("game created", "game_id", game.ID, "variant", game.Variant, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateGameResponse{
		GameID:   game.ID,
		AdminKey: adminKey,
	})
}

// AddEntrants handles POST /games/:id/entrants
func (h *GameHandler) AddEntrants(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if gameID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "game_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(gameID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.AddEntrantsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	added, err := h.eng.AddEntrants(gameID, req.ParticipantIDs)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("entrants added", "game_id", gameID, "count", added)

	middleware.JSONResponse(w, http.StatusCreated, models.AddEntrantsResponse{Added: added})
}

// StartGame handles POST /games/:id/start
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
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

	// Body is optional; an empty body means "shuffle for me"
	var req models.StartGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	shareSlug := auth.GenerateShareSlug(gameID, h.cfg.GameSlugSalt)

	round, groups, err := h.eng.StartGame(gameID, shareSlug, req.Groups)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("game started", "game_id", gameID, "groups", len(groups))

	middleware.JSONResponse(w, http.StatusOK, models.StartGameResponse{
		ShareSlug: shareSlug,
		ShareURL:  h.cfg.BaseURL + "/games/" + shareSlug,
		Round:     models.RoundView{Number: round.Number, Status: round.Status},
		Groups:    groupViews(groups),
	})
}

// SettleGame handles POST /games/:id/settle
func (h *GameHandler) SettleGame(w http.ResponseWriter, r *http.Request) {
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

	if err := h.eng.Settle(gameID); err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("game settled", "game_id", gameID)

	outcome, err := h.eng.Outcome(gameID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, outcome)
}

// groupViews projects groups for public consumption; role holders never
// leave the engine.
func groupViews(groups []models.Group) []models.GroupView {
	views := make([]models.GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, models.GroupView{
			ID:       g.ID,
			Number:   g.Number,
			Status:   g.Status,
			WinnerID: g.WinnerID,
			Members:  g.Members,
		})
	}
	return views
}
