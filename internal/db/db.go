package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Options tune the connection pool.
type Options struct {
	MaxOpenConns  int
	BusyTimeoutMS int
}

// DefaultOptions returns the pool settings used when none are configured.
func DefaultOptions() Options {
	return Options{MaxOpenConns: 8, BusyTimeoutMS: 5000}
}

// DB is the pooled SQLite handle shared by all request handlers.
// Writers are serialized in-process so that a write transaction never has
// to upgrade a stale read snapshot; readers run concurrently against WAL
// snapshots.
type DB struct {
	*sqlx.DB
	writeMu sync.Mutex
}

// Open opens a SQLite database and configures per-connection pragmas.
func Open(path string, opts Options) (*DB, error) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = DefaultOptions().MaxOpenConns
	}
	if opts.BusyTimeoutMS <= 0 {
		opts.BusyTimeoutMS = DefaultOptions().BusyTimeoutMS
	}

	conn, err := sqlx.Open("sqlite", dsn(path, opts))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &DB{DB: conn}, nil
}

// dsn builds a modernc connection string. Pragmas are passed in the DSN so
// every pooled connection gets them, not only the first one.
func dsn(path string, opts Options) string {
	pragmas := []string{
		fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeoutMS),
		"foreign_keys(1)",
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
	}

	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}

	prefix := "file:"
	if strings.HasPrefix(path, "file:") {
		prefix = ""
	}
	return prefix + path + "?" + q.Encode()
}

// WriteTx runs fn inside a transaction, holding the process-wide write lock.
// The transaction is committed if fn returns nil and rolled back otherwise.
func (d *DB) WriteTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	return d.runTx(ctx, fn)
}

// ReadTx runs fn inside a transaction so that every statement fn issues sees
// the same snapshot.
func (d *DB) ReadTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return d.runTx(ctx, fn)
}

func (d *DB) runTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
