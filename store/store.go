// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// Observer is notified after each successful mutation with the event and a
// deep copy of every poll. Observers run under the store lock and must not block.
type Observer func(evt models.Event, snapshot []models.Poll)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithObserver registers an observer for mutations.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

// Store holds every poll in insertion order.
type Store struct {
	mu        sync.Mutex
	polls     []models.Poll
	nextID    int
	now       func() time.Time
	observers []Observer
}

// New builds a store seeded with previously persisted polls.
// The next id is one past the largest seeded id, or 1 when empty.
func New(seed []models.Poll, opts ...Option) *Store {
	s := &Store{
		polls:  make([]models.Poll, 0, len(seed)),
		nextID: 1,
		now:    time.Now,
	}
	for _, p := range seed {
		s.polls = append(s.polls, p.Clone())
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all polls in insertion order.
func (s *Store) List() []models.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns the poll with the given id.
func (s *Store) Get(id int) (models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Poll{}, notFound("Poll not found")
	}
	return s.polls[i].Clone(), nil
}

// Create validates and appends a new poll with zeroed counters.
func (s *Store) Create(question string, options []string) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Poll{}, invalid("Question is required")
	}
	if len(options) < 2 {
		return models.Poll{}, invalid("Question must have at least 2 poll options")
	}

	opts := make([]models.Option, 0, len(options))
	for _, text := range options {
		text = strings.TrimSpace(text)
		if text == "" {
			return models.Poll{}, invalid("Poll options cannot be blank")
		}
		opts = append(opts, models.Option{Text: text})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	poll := models.Poll{
		ID:        s.nextID,
		Question:  question,
		Options:   opts,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.polls = append(s.polls, poll)

	s.notifyLocked(models.EventPollCreated, poll)
	return poll.Clone(), nil
}

// Vote adds one vote to the option at optionIndex.
func (s *Store) Vote(id, optionIndex int) (models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Poll{}, notFound("No poll found with matching id: %d", id)
	}

	poll := &s.polls[i]
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return models.Poll{}, invalid("No option found on poll %d with option index %d", id, optionIndex)
	}

	poll.Options[optionIndex].Votes++
	poll.TotalVotes++

	s.notifyLocked(models.EventPollVoted, *poll)
	return poll.Clone(), nil
}

// Len reports how many polls are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.polls)
}

func (s *Store) indexLocked(id int) int {
	for i := range s.polls {
		if s.polls[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []models.Poll {
	out := make([]models.Poll, len(s.polls))
	for i, p := range s.polls {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) notifyLocked(eventType string, poll models.Poll) {
	if len(s.observers) == 0 {
		return
	}
	evt := models.Event{Type: eventType, Poll: poll.Clone(), At: s.now().UTC()}
	snapshot := s.snapshotLocked()
	for _, o := range s.observers {
		o(evt, snapshot)
	}
}
