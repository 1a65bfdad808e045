// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-poll/hub"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

// LiveHandler streams a poll's tally over a WebSocket.
type LiveHandler struct {
	store    *store.Store
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewLiveHandler(s *store.Store, h *hub.Hub, allowedOrigin string) *LiveHandler {
	return &LiveHandler{
		store: s,
		hub:   h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "*" || allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Live handles GET /polls/:id/live
// Sends the current poll, then every change until the client disconnects.
func (h *LiveHandler) Live(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	if _, err := h.store.Get(id); err != nil {
		writeStoreError(w, err, http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		slog.Warn("websocket upgrade failed", "poll_id", id, "error", err)
		return
	}

	// The hub reads and sends the current poll itself once subscribed
	client := hub.NewWebsocketClient(conn)
	snapshot := func() (models.Poll, error) { return h.store.Get(id) }
	if !h.hub.Register(id, client, snapshot) {
		client.Close()
		return
	}
	defer h.hub.Unregister(id, client)

	slog.Info("live subscriber connected", "poll_id", id)

	// Keep the connection alive until an error occurs
	for {
		if _, _, err := client.ReadMessage(); err != nil {
			break
		}
	}
	slog.Info("live subscriber disconnected", "poll_id", id)
}
