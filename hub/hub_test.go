// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/models"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (c *fakeClient) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeClient) ReadMessage() (int, []byte, error) {
	return 0, nil, errors.New("not implemented")
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func votedEvent(pollID, total int) models.Event {
	return models.Event{
		Type: models.EventPollVoted,
		Poll: models.Poll{ID: pollID, TotalVotes: total},
	}
}

func TestHub_BroadcastsOnlyToPollSubscribers(t *testing.T) {
	h, _ := startHub(t)

	watcher := &fakeClient{}
	other := &fakeClient{}
	require.True(t, h.Register(1, watcher, nil))
	require.True(t, h.Register(2, other, nil))
	assert.Equal(t, 2, h.Subscribers())

	h.Observe(votedEvent(1, 5), nil)

	require.Eventually(t, func() bool { return len(watcher.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, other.received())

	var evt models.Event
	require.NoError(t, json.Unmarshal(watcher.received()[0], &evt))
	assert.Equal(t, models.EventPollVoted, evt.Type)
	assert.Equal(t, 5, evt.Poll.TotalVotes)
}

func TestHub_DropsFailingClient(t *testing.T) {
	h, _ := startHub(t)

	broken := &fakeClient{writeErr: errors.New("broken pipe")}
	require.True(t, h.Register(1, broken, nil))

	h.Observe(votedEvent(1, 1), nil)

	require.Eventually(t, broken.isClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, h.Subscribers())
}

func TestHub_Unregister(t *testing.T) {
	h, _ := startHub(t)

	c := &fakeClient{}
	require.True(t, h.Register(3, c, nil))
	h.Unregister(3, c)

	// Subscribers round-trips through Run, so the removal has finished
	assert.Equal(t, 0, h.Subscribers())
	assert.True(t, c.isClosed())

	// unknown subscriptions are ignored
	h.Unregister(99, &fakeClient{})
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	h, cancel := startHub(t)

	c := &fakeClient{}
	require.True(t, h.Register(1, c, nil))
	cancel()

	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return !h.Register(1, &fakeClient{}, nil) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, h.Subscribers())
}

func TestHub_SendsSnapshotOnRegister(t *testing.T) {
	h, _ := startHub(t)

	c := &fakeClient{}
	snapshot := func() (models.Poll, error) { return models.Poll{ID: 1, TotalVotes: 4}, nil }
	require.True(t, h.Register(1, c, snapshot))

	// Subscribers round-trips through Run, so the snapshot is already written
	assert.Equal(t, 1, h.Subscribers())
	require.Len(t, c.received(), 1)
	var evt models.Event
	require.NoError(t, json.Unmarshal(c.received()[0], &evt))
	assert.Equal(t, models.EventPollSnapshot, evt.Type)
	assert.Equal(t, 4, evt.Poll.TotalVotes)
}

func TestHub_SkipsUpdatesOlderThanSnapshot(t *testing.T) {
	h, _ := startHub(t)

	c := &fakeClient{}
	snapshot := func() (models.Poll, error) { return models.Poll{ID: 1, TotalVotes: 2}, nil }
	require.True(t, h.Register(1, c, snapshot))

	// Queued before the snapshot was read but delivered after it
	h.Observe(votedEvent(1, 1), nil)
	h.Observe(votedEvent(1, 2), nil)
	h.Observe(votedEvent(1, 3), nil)

	require.Eventually(t, func() bool { return len(c.received()) == 2 }, time.Second, 5*time.Millisecond)
	// Subscribers round-trips through Run, so nothing else is in flight
	assert.Equal(t, 1, h.Subscribers())
	require.Len(t, c.received(), 2)

	var last models.Event
	require.NoError(t, json.Unmarshal(c.received()[1], &last))
	assert.Equal(t, 3, last.Poll.TotalVotes)
}

func TestHub_SnapshotErrorClosesClient(t *testing.T) {
	h, _ := startHub(t)

	c := &fakeClient{}
	snapshot := func() (models.Poll, error) { return models.Poll{}, errors.New("gone") }
	require.True(t, h.Register(7, c, snapshot))

	// Subscribers round-trips through Run, so registration has finished
	assert.Equal(t, 0, h.Subscribers())
	assert.True(t, c.isClosed())
	assert.Empty(t, c.received())
}
