package store

import (
	"context"
	"database/sql"
)

// Driver is the interface a database backend implements. It contains every
// query the store issues; the store itself stays backend-agnostic.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate applies the schema. Idempotent; called at startup.
	Migrate(ctx context.Context) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	GetUser(ctx context.Context, id int32) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// Preferences model related methods.
	GetPreferences(ctx context.Context, userID int32) (*Preferences, error)
	UpdatePreferences(ctx context.Context, update *UpdatePreferences) (*Preferences, error)
}
