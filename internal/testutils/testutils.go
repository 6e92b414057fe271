// Package testutils provides shared helpers for integration tests that
// need a real PostgreSQL database. Tests using it run each case inside
// a transaction that is rolled back afterwards, so they can run in
// parallel without interfering with each other and need no cleanup.
package testutils

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/fluentia/fluentia-api/internal/platform/postgres"
)

var migrationsRunOnce sync.Once

// IsIntegrationTestEnvironment reports whether a test database is
// configured. Integration tests skip silently when it is not.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// MustGetTestDatabaseURL returns the test database URL. It is meant for
// TestMain, where no testing.T is available.
func MustGetTestDatabaseURL() string {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		// ALLOW-PANIC
		panic("DATABASE_URL environment variable is required for integration tests")
	}
	return dbURL
}

// SetupTestDatabaseSchema applies all embedded migrations to the test
// database. It is safe to call from multiple TestMain functions; the
// migrations run at most once per process.
func SetupTestDatabaseSchema(db *sql.DB) error {
	var setupErr error
	migrationsRunOnce.Do(func() {
		goose.SetBaseFS(postgres.MigrationsFS)
		if err := goose.SetDialect("postgres"); err != nil {
			setupErr = fmt.Errorf("failed to set goose dialect: %w", err)
			return
		}
		if err := goose.Up(db, "migrations"); err != nil {
			setupErr = fmt.Errorf("failed to apply migrations: %w", err)
		}
	})
	return setupErr
}

// WithTx runs fn inside a transaction that is always rolled back, so
// the test leaves no trace in the shared database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
