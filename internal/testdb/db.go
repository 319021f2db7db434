package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/phrazzld/arc-api/internal/config"
	"github.com/phrazzld/arc-api/internal/platform/database"
)

// EnvDatabaseURL names a PostgreSQL database to run integration tests on.
const EnvDatabaseURL = "ARC_TEST_DATABASE_URL"

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// GetTestDatabaseConfig returns the PostgreSQL database named by
// EnvDatabaseURL, or an in-memory SQLite database.
func GetTestDatabaseConfig() config.DatabaseConfig {
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		return config.DatabaseConfig{Driver: database.DriverPostgres, URL: url}
	}
	return config.DatabaseConfig{Driver: database.DriverSQLite, URL: ":memory:"}
}

// GetTestDBWithT opens and migrates the test database. The connection is
// closed when the test ends.
func GetTestDBWithT(t testing.TB) *sql.DB {
	t.Helper()
	return open(t, GetTestDatabaseConfig())
}

// OpenMemory opens and migrates a private in-memory SQLite database,
// whatever the environment says.
func OpenMemory(t testing.TB) *sql.DB {
	t.Helper()
	return open(t, config.DatabaseConfig{Driver: database.DriverSQLite, URL: ":memory:"})
}

func open(t testing.TB, cfg config.DatabaseConfig) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, cfg, silentLogger())
	if err != nil {
		t.Fatalf("failed to open test database (%s): %v", cfg.Driver, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := database.Migrate(ctx, db, cfg.Driver, database.MigrateUp, silentLogger()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// WithTx runs fn in a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
