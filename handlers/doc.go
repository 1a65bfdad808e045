// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the quickly-poll API.

# Handler Types

Each handler is a struct holding the poll store:

  - PollHandler: list, fetch and create polls
  - VotingHandler: cast a vote
  - LiveHandler: stream a poll's tally over a WebSocket

	pollHandler := handlers.NewPollHandler(s)

# Endpoints

	GET  /polls           → ListPolls
	GET  /polls/{id}      → GetPoll
	POST /polls           → CreatePoll
	POST /polls/{id}/vote → Vote
	GET  /polls/{id}/live → Live

Every JSON response uses the {success, data, count, message} envelope.
Validation failures on create are 422, bad votes are 400 and unknown polls
are 404. A non-numeric id is treated as an unknown poll.
*/
package handlers
