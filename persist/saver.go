// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// saveTimeout bounds a single background write.
const saveTimeout = 10 * time.Second

// Saver writes snapshots to a Backend on a background goroutine.
//
// Enqueue never blocks. At most one snapshot waits at a time; a newer
// snapshot replaces a pending one, so the last mutation always wins.
// Failed writes are logged and dropped, never retried.
type Saver struct {
	backend Backend
	pending chan []models.Poll
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
	closed  atomic.Bool
	writes  atomic.Int64
	fails   atomic.Int64
}

// NewSaver starts the background writer.
func NewSaver(backend Backend) *Saver {
	s := &Saver{
		backend: backend,
		pending: make(chan []models.Poll, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Observe matches store.Observer so the saver can be registered directly.
func (s *Saver) Observe(_ models.Event, snapshot []models.Poll) {
	s.Enqueue(snapshot)
}

// Enqueue schedules snapshot for writing, replacing any pending snapshot.
func (s *Saver) Enqueue(snapshot []models.Poll) {
	if s.closed.Load() {
		slog.Warn("saver closed, dropping snapshot", "polls", len(snapshot))
		return
	}
	for {
		select {
		case s.pending <- snapshot:
			return
		default:
		}
		// Drop the stale snapshot; the writer may have taken it already.
		select {
		case <-s.pending:
		default:
		}
	}
}

// Close stops accepting snapshots, writes the pending one, and waits for
// the writer to exit or ctx to expire.
func (s *Saver) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.quit)
	})
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("saver did not drain: %w", ctx.Err())
	}
}

// Stats reports successful and failed writes.
func (s *Saver) Stats() (writes, fails int64) {
	return s.writes.Load(), s.fails.Load()
}

func (s *Saver) run() {
	defer close(s.done)
	for {
		select {
		case snapshot := <-s.pending:
			s.write(snapshot)
		case <-s.quit:
			select {
			case snapshot := <-s.pending:
				s.write(snapshot)
			default:
			}
			return
		}
	}
}

func (s *Saver) write(snapshot []models.Poll) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.backend.Save(ctx, snapshot); err != nil {
		s.fails.Add(1)
		slog.Error("failed to save polls", "backend", fmt.Sprint(s.backend), "error", err)
		return
	}
	s.writes.Add(1)
	slog.Debug("polls saved", "backend", fmt.Sprint(s.backend), "polls", len(snapshot))
}
