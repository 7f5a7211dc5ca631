package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// insert runs an INSERT written with ? placeholders and returns the
// generated id. pgx has no LastInsertId, so Postgres uses RETURNING.
func insert(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	var id int64

	if db.DriverName() == "pgx" {
		err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id: %w", err)
	}

	return id, nil
}

// forUpdate locks rows read inside a transaction until it ends. SQLite
// needs none: its transactions begin immediate and hold the write lock.
func forUpdate(tx *sqlx.Tx) string {
	switch tx.DriverName() {
	case "pgx", "mysql":
		return " FOR UPDATE"
	default:
		return ""
	}
}

// withTx runs fn inside a transaction, committing only if fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}

	return tx.Commit()
}
