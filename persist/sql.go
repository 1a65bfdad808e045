// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

// SQLBackend stores the poll list as one JSON row in poll_snapshot.
// Works with both the sqlite and postgres drivers.
type SQLBackend struct {
	db *sql.DB
}

func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Load(ctx context.Context) ([]models.Poll, error) {
	var payload string
	err := b.db.QueryRowContext(ctx, "SELECT payload FROM poll_snapshot WHERE id = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Poll{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return decodePolls([]byte(payload))
}

func (b *SQLBackend) Save(ctx context.Context, polls []models.Poll) error {
	data, err := encodePolls(polls, false)
	if err != nil {
		return err
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO poll_snapshot (id, payload, saved_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func (b *SQLBackend) String() string {
	return "sql"
}
