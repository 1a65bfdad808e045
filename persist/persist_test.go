// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

func samplePolls() []models.Poll {
	return []models.Poll{
		{
			ID:         1,
			Question:   "Color?",
			Options:    []models.Option{{Text: "Red", Votes: 2}, {Text: "Blue", Votes: 1}},
			TotalVotes: 3,
			CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			ID:        2,
			Question:  "Size?",
			Options:   []models.Option{{Text: "S"}, {Text: "L"}},
			CreatedAt: time.Date(2025, 1, 3, 3, 4, 5, 0, time.UTC),
		},
	}
}

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "polls.json")
	b := NewFileBackend(path)

	require.NoError(t, b.Save(ctx, samplePolls()))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePolls(), got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"id\": 1,"), "file should be a 2-space indented array: %s", raw)
	assert.Contains(t, string(raw), `"totalVotes": 3`)
	assert.Contains(t, string(raw), `"createdAt": "2025-01-02T03:04:05Z"`)
}

func TestFileBackend_MissingFile(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "nope.json"))

	got, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileBackend_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))

	got, err := NewFileBackend(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileBackend_SaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.json")
	require.NoError(t, NewFileBackend(path).Save(context.Background(), nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLoadOrEmpty_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polls.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	b := NewFileBackend(path)

	_, err := b.Load(context.Background())
	require.Error(t, err)

	got := LoadOrEmpty(context.Background(), b)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, cliparse.Config{Backend: cliparse.BackendFile, DataFile: "polls.json"})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open(ctx, cliparse.Config{Backend: cliparse.BackendSQLite, DatabaseURL: "file::memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLBackend{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, cliparse.Config{Backend: "tape"})
	assert.Error(t, err)
}

// recordingBackend captures every save for assertions.
type recordingBackend struct {
	mu    sync.Mutex
	saves [][]models.Poll
	err   error
	gate  chan struct{}
}

func (b *recordingBackend) Load(ctx context.Context) ([]models.Poll, error) {
	return []models.Poll{}, nil
}

func (b *recordingBackend) Save(ctx context.Context, polls []models.Poll) error {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves = append(b.saves, polls)
	return b.err
}

func (b *recordingBackend) Close() error { return nil }

func (b *recordingBackend) saved() [][]models.Poll {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]models.Poll(nil), b.saves...)
}

func TestSaver_CoalescesToLatest(t *testing.T) {
	gate := make(chan struct{})
	backend := &recordingBackend{gate: gate}
	saver := NewSaver(backend)

	first := samplePolls()[:1]
	saver.Enqueue(first)

	// Wait until the writer holds the first snapshot, blocked on the gate.
	require.Eventually(t, func() bool { return len(saver.pending) == 0 }, time.Second, time.Millisecond)

	saver.Enqueue(samplePolls()[:1])
	saver.Enqueue(samplePolls()[:2])
	close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, saver.Close(ctx))

	saves := backend.saved()
	require.Len(t, saves, 2)
	assert.Len(t, saves[0], 1)
	assert.Len(t, saves[1], 2, "the newest snapshot must be the last one written")

	writes, fails := saver.Stats()
	assert.Equal(t, int64(2), writes)
	assert.Equal(t, int64(0), fails)
}

func TestSaver_FailuresAreSwallowed(t *testing.T) {
	backend := &recordingBackend{err: errors.New("disk full")}
	saver := NewSaver(backend)

	saver.Enqueue(samplePolls())
	require.NoError(t, saver.Close(context.Background()))

	writes, fails := saver.Stats()
	assert.Equal(t, int64(0), writes)
	assert.Equal(t, int64(1), fails)
	assert.Len(t, backend.saved(), 1, "failed writes are not retried")
}

func TestSaver_EnqueueAfterClose(t *testing.T) {
	backend := &recordingBackend{}
	saver := NewSaver(backend)
	require.NoError(t, saver.Close(context.Background()))

	saver.Enqueue(samplePolls())
	assert.Empty(t, backend.saved())
}

func TestSaver_CloseRespectsContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	saver := NewSaver(&recordingBackend{gate: gate})
	saver.Enqueue(samplePolls())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := saver.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRestartContinuesIDs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "polls.json")

	// First process: create polls 1 and 2, vote once
	backend := NewFileBackend(path)
	saver := NewSaver(backend)
	s := store.New(LoadOrEmpty(ctx, backend), store.WithObserver(saver.Observe))
	_, err := s.Create("Color?", []string{"Red", "Blue"})
	require.NoError(t, err)
	_, err = s.Create("Size?", []string{"S", "M"})
	require.NoError(t, err)
	_, err = s.Vote(1, 1)
	require.NoError(t, err)
	require.NoError(t, saver.Close(ctx))

	// Second process: reload from the same file
	backend = NewFileBackend(path)
	s = store.New(LoadOrEmpty(ctx, backend))
	require.Equal(t, 2, s.Len())

	poll, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, poll.TotalVotes)
	assert.Equal(t, 1, poll.Options[1].Votes)

	next, err := s.Create("Shape?", []string{"Circle", "Square"})
	require.NoError(t, err)
	assert.Equal(t, 3, next.ID)
}
