// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/handlers"
	"github.com/danielhkuo/quickly-poll/hub"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/store"
)

func NewRouter(s *store.Store, h *hub.Hub, cfg cliparse.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.WithLogging)
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(s)
	votingHandler := handlers.NewVotingHandler(s)
	liveHandler := handlers.NewLiveHandler(s, h, cfg.AllowedOrigin)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	r.Get("/polls", pollHandler.ListPolls)
	r.Post("/polls", pollHandler.CreatePoll)
	r.Get("/polls/{id}", pollHandler.GetPoll)

	// Voting
	r.Post("/polls/{id}/vote", votingHandler.Vote)

	// Live tally
	r.Get("/polls/{id}/live", liveHandler.Live)

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-poll API v1"))
	})

	notFound := func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Route not found")
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
