// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds polls in memory and applies every mutation.

# Usage

Seed the store with whatever the persistence backend loaded:

	polls, _ := backend.Load(ctx)
	s := store.New(polls, store.WithObserver(saver.Observe))

Ids continue from the largest seeded id, so they are never reused across
restarts.

# Operations

	s.List()                 // all polls, insertion order
	s.Get(id)                // ErrNotFound
	s.Create(question, opts) // ErrInvalidArgument
	s.Vote(id, optionIndex)  // ErrNotFound, ErrInvalidArgument

Returned polls are deep copies. Errors are *store.Error values whose Message
is safe to show to clients; match the kind with errors.Is.

# Observers

Observers run after each successful Create or Vote while the lock is held,
so they see snapshots in mutation order. They must hand work off to a
goroutine instead of blocking.
*/
package store
