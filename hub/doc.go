// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package hub pushes live poll updates to WebSocket subscribers.
//
// The hub is a store observer: after every create or vote it writes the
// event as JSON to each client subscribed to that poll. Clients that fail a
// write are dropped. A new client gets the current poll first, sent from
// the hub's own loop, and never an update older than that.
package hub
