// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-poll/db"
)

func testSQLBackend(t *testing.T, driver, url string) {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Open(ctx, driver, url)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "DELETE FROM poll_snapshot")
	require.NoError(t, err)

	b := NewSQLBackend(conn)
	defer b.Close()

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "no row yet means no polls")

	require.NoError(t, b.Save(ctx, samplePolls()[:1]))
	require.NoError(t, b.Save(ctx, samplePolls()))

	got, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePolls(), got)

	var rows int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM poll_snapshot").Scan(&rows))
	assert.Equal(t, 1, rows, "saves overwrite the single snapshot row")
}

func TestSQLBackend_SQLite(t *testing.T) {
	testSQLBackend(t, db.DriverSQLite, "file::memory:")
}

func TestSQLBackend_Postgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	testSQLBackend(t, db.DriverPostgres, url)
}
