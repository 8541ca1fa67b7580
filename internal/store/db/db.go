// Package db selects a store driver from configuration.
package db

import (
	"github.com/pkg/errors"

	"github.com/fyrsmithlabs/sweepd/internal/store"
	"github.com/fyrsmithlabs/sweepd/internal/store/db/postgres"
	"github.com/fyrsmithlabs/sweepd/internal/store/db/sqlite"
)

// NewDriver creates a store driver for the given backend name and DSN.
// Supported drivers: "sqlite" and "postgres".
func NewDriver(driver, dsn string) (store.Driver, error) {
	switch driver {
	case "sqlite":
		return sqlite.NewDB(dsn)
	case "postgres":
		return postgres.NewDB(dsn)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", driver)
	}
}
