// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the schema.

# Drivers

Two database/sql drivers are registered:

  - "sqlite": modernc.org/sqlite (pure Go, no cgo)
  - "postgres": github.com/lib/pq

Open connects, pings, and creates the schema in one call:

	conn, err := db.Open(ctx, db.DriverSQLite, "file:polls.db")
	if err != nil {
		log.Fatal(err)
	}

SQLite connections are capped at one open connection so that
"file::memory:" databases behave like a single database.

# Schema Creation

CreateSchema is safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - poll_snapshot: one row (id = 1) holding the JSON array of all polls

The JSON payload has the same layout as the flat data file, so switching
backends only needs a copy of the document.
*/
package db
