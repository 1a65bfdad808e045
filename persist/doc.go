// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package persist makes poll state survive restarts on a best-effort basis.

# Backends

A Backend loads and saves the whole poll list as one JSON document:

  - FileBackend: pretty-printed JSON array at a fixed path (default polls.json)
  - SQLBackend: one row in poll_snapshot (sqlite or postgres, see package db)
  - RedisBackend: one key, quickly-poll:polls

Open picks the backend from the parsed configuration:

	backend, err := persist.Open(ctx, cfg)

# Startup

LoadOrEmpty returns the saved polls. A missing document is an empty list;
an unreadable one is logged and also treated as empty.

# Background Writes

A Saver receives a snapshot after every create or vote and writes it on its
own goroutine:

	saver := persist.NewSaver(backend)
	s := store.New(polls, store.WithObserver(saver.Observe))
	defer saver.Close(ctx)

Callers never wait for the write. Only the newest pending snapshot is kept,
failures are logged and not retried, and a crash can lose the latest
mutations. Close drains the pending snapshot during graceful shutdown.
*/
package persist
