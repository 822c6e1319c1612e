// Package migrations holds the ledger schema, embedded in the binary.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"

	perrors "printquote/internal/errors"
	"printquote/internal/logging"
)

const sqliteDialect = "sqlite3"

//go:embed *.sql
var files embed.FS

// goose keeps its configuration in package globals
var mu sync.Mutex

// Up runs all pending migrations
func Up(ctx context.Context, db *sql.DB) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return perrors.Storage("set goose dialect", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return perrors.Storage("run goose up migrations", err)
	}
	return nil
}

// Version returns the applied schema version
func Version(db *sql.DB) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return 0, perrors.Storage("set goose dialect", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, perrors.Storage("read schema version", err)
	}
	return v, nil
}

// gooseLogger routes goose output to the application logger
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logging.Named("migrations").Sugar().Debugf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logging.Named("migrations").Sugar().Fatalf(format, v...)
}
