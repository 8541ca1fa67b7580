// Package postgres implements the store driver on PostgreSQL via lib/pq.
// Preferred for multi-node deployments.
package postgres

import (
	"context"
	"database/sql"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// DB implements store.Driver for PostgreSQL.
type DB struct {
	db  *sql.DB
	dsn string
}

// NewDB opens a PostgreSQL database with the given connection string.
func NewDB(dsn string) (store.Driver, error) {
	if dsn == "" {
		return nil, errors.New("dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres database")
	}
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
CREATE TABLE IF NOT EXISTS "user" (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS user_preferences (
	user_id INTEGER PRIMARY KEY REFERENCES "user" (id) ON DELETE CASCADE,
	language_filter BOOLEAN NOT NULL DEFAULT TRUE,
	sexual_content_filter BOOLEAN NOT NULL DEFAULT TRUE,
	violence_filter BOOLEAN NOT NULL DEFAULT TRUE,
	language_sensitivity TEXT NOT NULL DEFAULT 'medium',
	sexual_content_sensitivity TEXT NOT NULL DEFAULT 'medium',
	violence_sensitivity TEXT NOT NULL DEFAULT 'medium',
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);
`

// Migrate applies the schema. Idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply postgres schema")
	}
	return nil
}
