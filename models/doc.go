// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options ([]string)
  - VoteRequest: optionIndex

# Response Types

Every response carries a success flag:

  - PollListResponse: success, data ([]Poll), count
  - PollResponse: success, data (Poll), message
  - ErrorResponse: success (always false), message

# Domain Types

  - Poll: question, ordered options, totalVotes, createdAt
  - Option: text and vote counter
  - Event: mutation notice fanned out to subscribers

Poll.Clone returns a deep copy; the store only ever hands out clones.

# Constants

Event types:

	EventPollCreated  = "poll.created"
	EventPollVoted    = "poll.voted"
	EventPollSnapshot = "poll.snapshot"
*/
package models
