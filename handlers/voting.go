// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/group-verdict/cliparse"
	"github.com/danielhkuo/group-verdict/engine"
	"github.com/danielhkuo/group-verdict/middleware"
	"github.com/danielhkuo/group-verdict/models"
)

type VotingHandler struct {
	eng *engine.Engine
	cfg cliparse.Config
}

func NewVotingHandler(eng *engine.Engine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{eng: eng, cfg: cfg}
}

// participantID reads the externally-issued numeric identity from the
// X-Participant-ID header. Identity verification happens upstream; by the
// time a request reaches us the header is trusted.
func participantID(r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-Participant-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// CastVote handles POST /groups/:id/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	voterID, ok := participantID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-ID header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TargetID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "target_id is required")
		return
	}

	vote, err := h.eng.CastVote(groupID, voterID, req.TargetID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("vote cast", "group_id", groupID, "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		GroupID:     vote.GroupID,
		VoterID:     vote.VoterID,
		TargetID:    vote.TargetID,
		SubmittedAt: vote.SubmittedAt,
		Message:     "Vote recorded",
	})
}

// ChangeVote handles PUT /groups/:id/votes
func (h *VotingHandler) ChangeVote(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	voterID, ok := participantID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-ID header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TargetID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "target_id is required")
		return
	}

	vote, err := h.eng.ChangeVote(groupID, voterID, req.TargetID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("vote changed", "group_id", groupID, "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		GroupID:     vote.GroupID,
		VoterID:     vote.VoterID,
		TargetID:    vote.TargetID,
		SubmittedAt: vote.SubmittedAt,
		Message:     "Vote updated",
	})
}

// ClearVote handles DELETE /groups/:id/votes
func (h *VotingHandler) ClearVote(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	voterID, ok := participantID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-ID header required")
		return
	}

	if err := h.eng.ClearVote(groupID, voterID); err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("vote cleared", "group_id", groupID, "voter_id", voterID)

	w.WriteHeader(http.StatusNoContent)
}
