// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-poll/models"
)

const broadcastBuffer = 64

// Snapshot reads the current state of a poll.
type Snapshot func() (models.Poll, error)

type subscription struct {
	pollID   int
	client   Client
	snapshot Snapshot
}

// Hub tracks live subscribers per poll and pushes every change to them.
// All subscriber state is owned by the Run goroutine. For each client it
// remembers the last totalVotes sent, so an update older than what the
// client already has is skipped.
type Hub struct {
	clients    map[int]map[Client]int
	broadcast  chan models.Event
	register   chan subscription
	unregister chan subscription
	count      chan chan int
	done       chan struct{}
}

func New() *Hub {
	return &Hub{
		clients:    make(map[int]map[Client]int),
		broadcast:  make(chan models.Event, broadcastBuffer),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case sub := <-h.register:
			h.add(sub)
		case sub := <-h.unregister:
			h.remove(sub)
		case evt := <-h.broadcast:
			h.send(evt)
		case reply := <-h.count:
			n := 0
			for _, subs := range h.clients {
				n += len(subs)
			}
			reply <- n
		case <-ctx.Done():
			for pollID, subs := range h.clients {
				for client := range subs {
					client.Close()
				}
				delete(h.clients, pollID)
			}
			return
		}
	}
}

// Register subscribes client to pollID. When snapshot is set it is read
// and sent from the Run goroutine, so no update can slip in before it or
// between the read and the subscription. It reports false once the hub
// has stopped.
func (h *Hub) Register(pollID int, client Client, snapshot Snapshot) bool {
	select {
	case h.register <- subscription{pollID: pollID, client: client, snapshot: snapshot}:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes and closes client.
func (h *Hub) Unregister(pollID int, client Client) {
	select {
	case h.unregister <- subscription{pollID: pollID, client: client}:
	case <-h.done:
		client.Close()
	}
}

// Observe matches store.Observer. Events are dropped when the hub is backed up.
func (h *Hub) Observe(evt models.Event, _ []models.Poll) {
	select {
	case h.broadcast <- evt:
	default:
		slog.Warn("live hub backed up, dropping update", "poll_id", evt.Poll.ID)
	}
}

// Subscribers reports the number of connected clients across all polls.
func (h *Hub) Subscribers() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) add(sub subscription) {
	seen := -1
	if sub.snapshot != nil {
		poll, err := sub.snapshot()
		if err != nil {
			slog.Warn("live subscriber has no poll to watch", "poll_id", sub.pollID, "error", err)
			sub.client.Close()
			return
		}
		evt := models.Event{Type: models.EventPollSnapshot, Poll: poll, At: time.Now().UTC()}
		if err := h.write(sub.client, evt); err != nil {
			slog.Warn("dropping live subscriber", "poll_id", sub.pollID, "error", err)
			sub.client.Close()
			return
		}
		seen = poll.TotalVotes
	}
	if h.clients[sub.pollID] == nil {
		h.clients[sub.pollID] = make(map[Client]int)
	}
	h.clients[sub.pollID][sub.client] = seen
}

func (h *Hub) remove(sub subscription) {
	subs, ok := h.clients[sub.pollID]
	if !ok {
		return
	}
	if _, ok := subs[sub.client]; ok {
		delete(subs, sub.client)
		sub.client.Close()
	}
	if len(subs) == 0 {
		delete(h.clients, sub.pollID)
	}
}

func (h *Hub) send(evt models.Event) {
	subs := h.clients[evt.Poll.ID]
	if len(subs) == 0 {
		return
	}
	message, err := json.Marshal(evt)
	if err != nil {
		slog.Error("failed to encode live update", "error", err)
		return
	}
	for client, seen := range subs {
		// Votes only go up; anything at or below seen is already on screen
		if evt.Poll.TotalVotes <= seen {
			continue
		}
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Warn("dropping live subscriber", "poll_id", evt.Poll.ID, "error", err)
			h.remove(subscription{pollID: evt.Poll.ID, client: client})
			continue
		}
		subs[client] = evt.Poll.TotalVotes
	}
}

func (h *Hub) write(client Client, evt models.Event) error {
	message, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return client.WriteMessage(websocket.TextMessage, message)
}
