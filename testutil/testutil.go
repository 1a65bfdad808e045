// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/hub"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/store"
)

// FixedTime is the clock every test store reports
var FixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// SetupTestStore creates an empty store with a fixed clock
func SetupTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithClock(func() time.Time { return FixedTime })}, opts...)
	return store.New(nil, opts...)
}

// SetupTestHub starts a live hub that stops when the test ends
func SetupTestHub(t *testing.T) *hub.Hub {
	t.Helper()
	h := hub.New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3000,
		Backend:       cliparse.BackendFile,
		DataFile:      "polls.json",
		AMQPQueue:     cliparse.DefaultAMQPQueue,
		AllowedOrigin: "*",
		LogFormat:     "text",
	}
}

// CreateTestPoll creates a poll directly in the store
func CreateTestPoll(t *testing.T, s *store.Store, question string, options ...string) models.Poll {
	t.Helper()

	poll, err := s.Create(question, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// CastTestVotes votes n times for optionIndex
func CastTestVotes(t *testing.T, s *store.Store, pollID, optionIndex, n int) models.Poll {
	t.Helper()

	var poll models.Poll
	for i := 0; i < n; i++ {
		var err error
		poll, err = s.Vote(pollID, optionIndex)
		if err != nil {
			t.Fatalf("Failed to cast test vote: %v", err)
		}
	}
	return poll
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertError checks a failure envelope and its message
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	AssertStatus(t, w, status)

	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.Success {
		t.Error("Expected success=false")
	}
	if resp.Message != message {
		t.Errorf("Expected message %q, got %q", message, resp.Message)
	}
}
