// Package sqlite implements the store driver on SQLite via the pure-Go
// modernc.org/sqlite driver. Suited to single-node deployments and tests.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// DB implements store.Driver for SQLite.
type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB opens a SQLite database at the given DSN (a file path, or
// ":memory:" for tests).
func NewDB(dsn string) (store.Driver, error) {
	if dsn == "" {
		return nil, errors.New("dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database %q", dsn)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	return &DB{db: db, dsn: dsn}, nil
}

// GetDB returns the underlying database handle.
func (d *DB) GetDB() *sql.DB {
	return d.db
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE TABLE IF NOT EXISTS user_preferences (
	user_id INTEGER PRIMARY KEY REFERENCES user (id) ON DELETE CASCADE,
	language_filter BOOLEAN NOT NULL DEFAULT 1,
	sexual_content_filter BOOLEAN NOT NULL DEFAULT 1,
	violence_filter BOOLEAN NOT NULL DEFAULT 1,
	language_sensitivity TEXT NOT NULL DEFAULT 'medium',
	sexual_content_sensitivity TEXT NOT NULL DEFAULT 'medium',
	violence_sensitivity TEXT NOT NULL DEFAULT 'medium',
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);
`

// Migrate applies the schema. Idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply sqlite schema")
	}
	return nil
}
