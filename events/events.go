// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// Publisher delivers a mutation event somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, evt models.Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.Event) error { return nil }
func (Nop) Close() error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt models.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const (
	dispatchBuffer = 256
	publishTimeout = 5 * time.Second
)

// Dispatcher hands store events to a Publisher on a background goroutine.
// When the buffer is full the event is dropped and logged.
type Dispatcher struct {
	pub    Publisher
	queue  chan models.Event
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(pub Publisher) *Dispatcher {
	d := &Dispatcher{
		pub:   pub,
		queue: make(chan models.Event, dispatchBuffer),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// Observe matches store.Observer.
func (d *Dispatcher) Observe(evt models.Event, _ []models.Poll) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- evt:
	default:
		slog.Warn("event buffer full, dropping event", "type", evt.Type, "poll_id", evt.Poll.ID)
	}
}

// Close publishes whatever is buffered, then closes the publisher.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	select {
	case <-d.done:
		return d.pub.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for evt := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.pub.Publish(ctx, evt); err != nil {
			slog.Error("failed to publish event", "type", evt.Type, "poll_id", evt.Poll.ID, "error", err)
		}
		cancel()
	}
}
