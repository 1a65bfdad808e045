// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

type PollHandler struct {
	store *store.Store
}

func NewPollHandler(s *store.Store) *PollHandler {
	return &PollHandler{store: s}
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls := h.store.List()

	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{
		Success: true,
		Data:    polls,
		Count:   len(polls),
	})
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	poll, err := h.store.Get(id)
	if err != nil {
		writeStoreError(w, err, http.StatusBadRequest)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		Success: true,
		Data:    poll,
	})
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		// Wrong field types are validation failures, not malformed JSON
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			switch {
			case strings.HasPrefix(typeErr.Field, "options"):
				middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Question must have at least 2 poll options")
				return
			case typeErr.Field == "question":
				middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Question is required")
				return
			}
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.store.Create(req.Question, req.Options)
	if err != nil {
		writeStoreError(w, err, http.StatusUnprocessableEntity)
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusCreated, models.PollResponse{
		Success: true,
		Data:    poll,
		Message: "Successfully created poll",
	})
}

// pollID reads the {id} URL parameter. Like a lenient integer parse it
// uses the leading digits ("12abc" is 12); with no digits it names no poll.
func pollID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(idPrefix(chi.URLParam(r, "id")))
	if err != nil {
		return 0, false
	}
	return id, true
}

// idPrefix returns the optional sign and digits at the start of raw,
// after leading whitespace.
func idPrefix(raw string) string {
	raw = strings.TrimLeft(raw, " \t\n\r")
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return ""
	}
	return raw[:end]
}

// writeStoreError maps store error kinds to HTTP statuses.
// invalidStatus is used for ErrInvalidArgument since create and vote differ.
func writeStoreError(w http.ResponseWriter, err error, invalidStatus int) {
	var storeErr *store.Error
	switch {
	case errors.Is(err, store.ErrNotFound) && errors.As(err, &storeErr):
		middleware.ErrorResponse(w, http.StatusNotFound, storeErr.Message)
	case errors.Is(err, store.ErrInvalidArgument) && errors.As(err, &storeErr):
		middleware.ErrorResponse(w, invalidStatus, storeErr.Message)
	default:
		slog.Error("unexpected store error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong!")
	}
}
