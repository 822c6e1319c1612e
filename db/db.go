// Package db is the ledger of issued quotes, stored in SQLite.
package db

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"printquote/db/migrations"
	perrors "printquote/internal/errors"
)

// Open opens a SQLite database, sets pragmas, validates connectivity and
// applies pending migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, perrors.Storage("open sqlite database", err)
	}

	if _, err := conn.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		conn.Close()
		return nil, perrors.Storage("set sqlite pragmas", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, perrors.Storage("ping sqlite database", err)
	}

	if err := migrations.Up(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
