// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/push-api/internal/config"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
)

// NewSQLiteDB returns a migrated in-memory store that is closed when the
// test ends.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()
	return openSQLite(t, ":memory:")
}

// NewSQLiteFileDB returns a migrated file-backed store with a full
// connection pool, for tests that write concurrently.
func NewSQLiteFileDB(t testing.TB) *sqlx.DB {
	t.Helper()
	return openSQLite(t, "file:"+filepath.Join(t.TempDir(), "fanout.db"))
}

func openSQLite(t testing.TB, dsn string) *sqlx.DB {
	t.Helper()

	db, err := postgres.NewDB(config.DatabaseConfig{
		Driver:       postgres.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.Migrate(context.Background(), db))
	return db
}

func Ptr[T any](v T) *T {
	return &v
}
