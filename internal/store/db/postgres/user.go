package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `INSERT INTO "user" (uid, username) VALUES ($1, $2) RETURNING id, created_ts`
	if err := tx.QueryRowContext(ctx, stmt, create.UID, create.Username).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, store.ErrAlreadyExists
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO user_preferences (user_id) VALUES ($1)`, create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create default preferences")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit user creation")
	}
	return create, nil
}

func (d *DB) GetUser(ctx context.Context, id int32) (*store.User, error) {
	user := &store.User{}
	stmt := `SELECT id, uid, username, created_ts FROM "user" WHERE id = $1`
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
	stmt := `SELECT id, uid, username, created_ts FROM "user" WHERE username = $1`
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
