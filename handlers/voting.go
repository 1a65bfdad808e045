// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

// VotingHandler records votes. Nothing stops the same client voting twice;
// the front-end tracks "already voted" locally.
type VotingHandler struct {
	store *store.Store
}

func NewVotingHandler(s *store.Store) *VotingHandler {
	return &VotingHandler{store: s}
}

// Vote handles POST /polls/:id/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(r)
	if !ok {
		// Same wording as an integer parse that found no number
		shown := idPrefix(chi.URLParam(r, "id"))
		if shown == "" {
			shown = "NaN"
		}
		middleware.ErrorResponse(w, http.StatusNotFound, "No poll found with matching id: "+shown)
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "optionIndex must be an integer")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OptionIndex == nil {
		// An unknown poll still reports 404 before the body is judged
		if _, err := h.store.Get(id); err != nil {
			middleware.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("No poll found with matching id: %d", id))
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "optionIndex is required")
		return
	}

	poll, err := h.store.Vote(id, *req.OptionIndex)
	if err != nil {
		writeStoreError(w, err, http.StatusBadRequest)
		return
	}

	slog.Info("vote recorded", "poll_id", poll.ID, "option_index", *req.OptionIndex, "total_votes", poll.TotalVotes)

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		Success: true,
		Data:    poll,
		Message: "Successfully added vote",
	})
}
