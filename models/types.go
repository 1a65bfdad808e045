package models

import "time"

// Event type constants
const (
	EventPollCreated  = "poll.created"
	EventPollVoted    = "poll.voted"
	EventPollSnapshot = "poll.snapshot" // first message to a live subscriber
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// OptionIndex is a pointer so a missing field can be told apart from 0
type VoteRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

// Response types

type PollListResponse struct {
	Success bool   `json:"success"`
	Data    []Poll `json:"data"`
	Count   int    `json:"count"`
}

type PollResponse struct {
	Success bool   `json:"success"`
	Data    Poll   `json:"data"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Option struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID         int       `json:"id"`
	Question   string    `json:"question"`
	Options    []Option  `json:"options"`
	TotalVotes int       `json:"totalVotes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers never share option slices with the store.
func (p Poll) Clone() Poll {
	c := p
	c.Options = make([]Option, len(p.Options))
	copy(c.Options, p.Options)
	return c
}

// Event is published after every successful mutation.
type Event struct {
	Type string    `json:"type"`
	Poll Poll      `json:"poll"`
	At   time.Time `json:"at"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
