// Package dbtest provides a Postgres pool for repository tests. Tests are
// skipped unless TEST_DATABASE_URL points at a disposable database.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/booking/internal/platform/db"
)

// EnvVar names the connection string used by repository tests.
const EnvVar = "TEST_DATABASE_URL"

var tables = []string{"users", "practitioners", "availability_slots", "appointments", "notifications", "audit_logs"}

// Pool connects to TEST_DATABASE_URL, applies the migrations and truncates
// every table. The pool is closed when the test ends.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(EnvVar)
	if url == "" {
		t.Skipf("%s not set; skipping Postgres repository test", EnvVar)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, url, 4, 1)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := db.NewMigrator(pool, MigrationsDir()).Up(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, "TRUNCATE "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return pool
}

// MigrationsDir returns the absolute path of the repository's migrations.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}
