// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/commutelog/api/internal/db"
	"github.com/jmoiron/sqlx"
)

// SQLiteDSN returns a connection string for a fresh database file under dir.
func SQLiteDSN(dir string) string {
	return filepath.Join(dir, "test.db") + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// NewDB opens a migrated sqlite database that is closed when the test ends.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", SQLiteDSN(t.TempDir()), db.PoolConfig{MaxOpen: 10})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return database
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
