// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quickly-poll API server.

quickly-poll is a minimal polling service: create a poll with a question and
at least two options, then vote on it. State lives in memory and a snapshot
is written in the background after every change.

# Starting the Server

With no configuration the server listens on port 3000 and keeps its
snapshot in ./polls.json:

	go run .

Or with flags:

	go run . -p 8080 -b sqlite -d "file:polls.db"

# Configuration

All settings are optional. Flags win over environment variables, which win
over the YAML file named by -c or CONFIG_FILE. A .env file is read if present.

  - PORT (-p): Server port (default: 3000)
  - STORE_BACKEND (-b): file, sqlite, postgres or redis (default: file)
  - DATA_FILE (-f): Snapshot path for the file backend (default: polls.json)
  - DATABASE_URL (-d): Required for sqlite and postgres
  - REDIS_URL (-redis): Required for redis
  - RABBITMQ_URL (-amqp): Publish poll events to RabbitMQ
  - RABBITMQ_QUEUE (-queue): Comma-separated event queues (default: poll-events)
  - CORS_ORIGIN (-origin): Allowed origin (default: any)
  - LOG_FORMAT (-log): text or json (default: text)

# Architecture

  - store: In-memory polls, the only place state changes
  - persist: Snapshot backends and the background saver
  - events: Best-effort event publishing
  - hub: Live WebSocket subscribers per poll
  - handlers: HTTP request handlers
  - router: chi route definitions
  - middleware: CORS, logging, recovery, JSON helpers
  - models: Request/response types
  - db: SQL connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
