// Package store persists the generated dataset in a single SQLite file
// and answers the aggregate report queries through the DB interface.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the minimal database contract used by this module. It mirrors
// the methods we use from *sql.DB; the indirection lets cross-cutting
// features (SQL logging) wrap the handle without touching callers.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PingContext(ctx context.Context) error
	Close() error
}

// stdDB adapts *sql.DB to the DB interface.
type stdDB struct{ *sql.DB }

func (d stdDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, query, args...)
}

func (d stdDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, query, args...)
}

func (d stdDB) PingContext(ctx context.Context) error { return d.DB.PingContext(ctx) }

// loggingDB logs every statement with its duration. Minimal on purpose;
// use it in dev runs when the SQL needs to be observable.
type loggingDB struct {
	inner  DB
	logger *log.Logger
}

func (d loggingDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.inner.ExecContext(ctx, query, args...)
	d.logger.Printf("store exec dur=%s err=%v sql=%q", time.Since(start), err, query)
	return res, err
}

func (d loggingDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.inner.QueryContext(ctx, query, args...)
	d.logger.Printf("store query dur=%s err=%v sql=%q", time.Since(start), err, query)
	return rows, err
}

func (d loggingDB) PingContext(ctx context.Context) error { return d.inner.PingContext(ctx) }

func (d loggingDB) Close() error { return d.inner.Close() }

// WithSQLLogger wraps db with a SQL logger if logger is not nil.
func WithSQLLogger(db DB, logger *log.Logger) DB {
	if logger == nil {
		return db
	}
	return loggingDB{inner: db, logger: logger}
}

// Open opens (creating if absent) the SQLite database file and
// validates the connection. Foreign key enforcement is switched on at
// the connection level so inserts violating referential integrity fail
// immediately. The store is not meant to be shared across processes;
// callers own the handle and must Close it on every exit path.
func Open(file string) (DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", file)
	raw, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", file, err)
	}
	// A file-backed SQLite store is single-writer; one connection keeps
	// the pool from fighting over the write lock.
	raw.SetMaxOpenConns(1)
	if err := raw.PingContext(context.Background()); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping store %s: %w", file, err)
	}
	return stdDB{DB: raw}, nil
}
