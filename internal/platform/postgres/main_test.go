package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fluentia/fluentia-api/internal/testutils"
)

// testDB is shared by every integration test in this package. The
// tests run inside rolled-back transactions, so sharing one connection
// pool is safe.
var testDB *sql.DB

func TestMain(m *testing.M) {
	if !testutils.IsIntegrationTestEnvironment() {
		// No test database configured; nothing to run here.
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("pgx", testutils.MustGetTestDatabaseURL())
	if err != nil {
		fmt.Printf("Failed to open database connection: %v\n", err)
		os.Exit(1)
	}

	testDB.SetMaxOpenConns(5)
	testDB.SetMaxIdleConns(5)
	testDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := testDB.PingContext(ctx); err != nil {
		fmt.Printf("Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	if err := testutils.SetupTestDatabaseSchema(testDB); err != nil {
		fmt.Printf("Failed to setup test database schema: %v\n", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	if err := testDB.Close(); err != nil {
		fmt.Printf("Failed to close database connection: %v\n", err)
	}

	os.Exit(exitCode)
}
