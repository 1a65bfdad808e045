// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - Backend: file, sqlite, postgres, or redis (default: file)
  - DataFile: JSON file for the file backend (default: polls.json)
  - DatabaseURL: sqlite or postgres connection string
  - RedisURL: redis:// URL or host:port
  - AMQPURL: RabbitMQ URL; events are disabled when empty
  - AMQPQueue: RabbitMQ queue (default: poll-events)
  - AllowedOrigin: CORS allowed origin (default: *)
  - LogFormat: text or json (default: text)

# CLI Flags

	-c        YAML config file
	-p        Server port
	-origin   CORS allowed origin
	-b        Persistence backend
	-f        Data file
	-d        Database URL
	-redis    Redis URL
	-amqp     RabbitMQ URL
	-queue    RabbitMQ queue
	-log      Log format

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	CORS_ORIGIN    → -origin
	STORE_BACKEND  → -b
	DATA_FILE      → -f
	DATABASE_URL   → -d
	REDIS_URL      → -redis
	RABBITMQ_URL   → -amqp
	RABBITMQ_QUEUE → -queue
	LOG_FORMAT     → -log
	CONFIG_FILE    → -c

A .env file in the working directory is loaded first if present; it never
overrides variables that are already set.

# Precedence

CLI flags > environment > YAML file > defaults.

# Validation

ParseFlags returns an error if:

  - the port is outside 1-65535
  - the backend is unknown
  - sqlite/postgres has no DatabaseURL, or redis has no RedisURL
  - the log format is not text or json
*/
package cliparse
