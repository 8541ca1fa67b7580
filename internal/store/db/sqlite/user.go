package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"modernc.org/sqlite"

	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// uniqueViolation is the SQLITE_CONSTRAINT_UNIQUE extended result code.
const uniqueViolation = 2067

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `INSERT INTO user (uid, username) VALUES (?, ?) RETURNING id, created_ts`
	if err := tx.QueryRowContext(ctx, stmt, create.UID, create.Username).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		// The username column is unique; report a conflict as such so the
		// API layer can answer 409 instead of 500. Classified from the
		// result code: the pool has a single connection and the open
		// transaction holds it, so no second query may run here.
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == uniqueViolation {
			return nil, store.ErrAlreadyExists
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	// Every user owns exactly one preferences row, created with defaults.
	if _, err := tx.ExecContext(ctx, `INSERT INTO user_preferences (user_id) VALUES (?)`, create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create default preferences")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit user creation")
	}
	return create, nil
}

func (d *DB) GetUser(ctx context.Context, id int32) (*store.User, error) {
	user := &store.User{}
	stmt := `SELECT id, uid, username, created_ts FROM user WHERE id = ?`
	if err := d.db.QueryRowContext(ctx, stmt, id).Scan(
		&user.ID,
		&user.UID,
		&user.Username,
		&user.CreatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get user")
	}
	return user, nil
}

func (d *DB) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	user := &store.User{}
	stmt := `SELECT id, uid, username, created_ts FROM user WHERE username = ?`
	if err := d.db.QueryRowContext(ctx, stmt, username).Scan(
		&user.ID,
		&user.UID,
		&user.Username,
		&user.CreatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get user by username")
	}
	return user, nil
}
