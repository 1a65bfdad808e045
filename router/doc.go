// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the quickly-poll API.

# Route Registration

NewRouter returns a chi router with all endpoints and middleware:

	handler := router.NewRouter(pollStore, liveHub, cfg)

# Endpoints

Health:

	GET /health

Polls:

	GET  /polls      - List polls with count
	POST /polls      - Create poll
	GET  /polls/{id} - Get one poll

Voting:

	POST /polls/{id}/vote - Add one vote to optionIndex

Live tally (WebSocket):

	GET /polls/{id}/live

Anything else, including a known path with the wrong method, answers
404 {"success":false,"message":"Route not found"}.

# Middleware

Applied to every request, outermost first:

  - Recover: panics become 500 "Something went wrong!"
  - WithLogging: request id and timing logs
  - CORS: configured allowed origin, preflight handling

# Handler Initialization

	pollHandler := handlers.NewPollHandler(s)
	votingHandler := handlers.NewVotingHandler(s)
	liveHandler := handlers.NewLiveHandler(s, h, cfg.AllowedOrigin)
*/
package router
