// Package testdb provides helpers for store integration tests that run
// against a real PostgreSQL instance. Tests using it skip automatically
// when no test database is configured, so the unit suite stays green
// without one.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// connectTimeout bounds the initial ping.
const connectTimeout = 5 * time.Second

// URL returns the configured test database URL, checking
// TASKHIVE_TEST_DB_URL and then DATABASE_URL. Empty when neither is set.
func URL() string {
	if url := os.Getenv("TASKHIVE_TEST_DB_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// Setup opens the test database, applies all migrations, and truncates
// the tables so the test starts from a known-empty state. It skips the
// test when no test database is configured. The connection is closed via
// t.Cleanup.
func Setup(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skip("skipping integration test: TASKHIVE_TEST_DB_URL not set")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "pinging test database")

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, migrationsDir(t)), "applying migrations")

	Reset(t, db)
	return db
}

// Reset truncates all application tables. Tests that share a database
// call it between cases.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE tasks, task_templates, users CASCADE`)
	require.NoError(t, err, "truncating tables")
}

// migrationsDir locates the migrations directory relative to this file,
// so integration tests work regardless of the package they run from.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "resolving caller for migrations path")
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
}
