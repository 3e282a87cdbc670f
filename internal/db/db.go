package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultBusyTimeoutMs is how long a writer waits for the SQLite write lock.
const DefaultBusyTimeoutMs = 5000

// Options tunes how the database is opened.
type Options struct {
	BusyTimeoutMs int
}

// Option mutates Options.
type Option func(*Options)

// WithBusyTimeout overrides the busy timeout in milliseconds.
func WithBusyTimeout(ms int) Option {
	return func(o *Options) {
		if ms > 0 {
			o.BusyTimeoutMs = ms
		}
	}
}

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database limited to one connection.
// Every pooled connection gets WAL mode, foreign keys and a busy timeout, and
// transactions begin IMMEDIATE so concurrent writers queue on the write lock
// instead of failing on upgrade.
// Runs migrations automatically.
func OpenDB(path string, opts ...Option) (*sql.DB, error) {
	o := Options{BusyTimeoutMs: DefaultBusyTimeoutMs}
	for _, opt := range opts {
		opt(&o)
	}

	memory := path == ":memory:"
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path, o, memory))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each :memory: connection is its own database.
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func dsn(path string, o Options, memory bool) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.BusyTimeoutMs))
	if !memory {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}
