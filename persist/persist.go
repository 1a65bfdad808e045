// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/models"
)

// Backend stores the full poll list as a single document.
type Backend interface {
	// Load returns the stored polls, or an empty list when nothing was saved yet.
	Load(ctx context.Context) ([]models.Poll, error)
	// Save overwrites the stored polls.
	Save(ctx context.Context, polls []models.Poll) error
	Close() error
}

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg cliparse.Config) (Backend, error) {
	switch cfg.Backend {
	case cliparse.BackendFile:
		return NewFileBackend(cfg.DataFile), nil
	case cliparse.BackendSQLite:
		conn, err := db.Open(ctx, db.DriverSQLite, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewSQLBackend(conn), nil
	case cliparse.BackendPostgres:
		conn, err := db.Open(ctx, db.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewSQLBackend(conn), nil
	case cliparse.BackendRedis:
		return OpenRedisBackend(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// LoadOrEmpty loads the saved polls. A failed load is logged and the
// server starts with no polls rather than refusing to boot.
func LoadOrEmpty(ctx context.Context, b Backend) []models.Poll {
	polls, err := b.Load(ctx)
	if err != nil {
		slog.Error("failed to load polls, starting empty", "error", err)
		return []models.Poll{}
	}
	return polls
}
