// Package store provides database access to users and their filtering
// preferences.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/sweepd/internal/store/cache"
)

// Store wraps a Driver with a preferences read cache. Reads are safe for
// concurrent use; writes go straight to the driver and overwrite the cache
// entry with the returned row, so per-user writes serialize at the database
// row.
type Store struct {
	driver Driver

	prefsCache *cache.Cache
	userCache  *cache.Cache
}

// New creates a Store around the given driver.
func New(driver Driver) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}
	return &Store{
		driver:     driver,
		prefsCache: cache.New(cacheConfig),
		userCache:  cache.New(cacheConfig),
	}
}

// GetDriver returns the underlying driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

// Close releases the cache janitors and the database connection.
func (s *Store) Close() error {
	s.prefsCache.Close()
	s.userCache.Close()
	return s.driver.Close()
}

// Migrate applies the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.GetDB().PingContext(ctx)
}

// CreateUser creates a user together with default preferences.
func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userKey(user.ID), user)
	return user, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id int32) (*User, error) {
	if v, ok := s.userCache.Get(userKey(id)); ok {
		return v.(*User), nil
	}
	user, err := s.driver.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(userKey(id), user)
	return user, nil
}

// GetUserByUsername returns a user by username. Uncached; only the creation
// path uses it.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.driver.GetUserByUsername(ctx, username)
}

// GetPreferences returns a user's preferences.
func (s *Store) GetPreferences(ctx context.Context, userID int32) (*Preferences, error) {
	if v, ok := s.prefsCache.Get(prefsKey(userID)); ok {
		return v.(*Preferences), nil
	}
	prefs, err := s.driver.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.prefsCache.Set(prefsKey(userID), prefs)
	return prefs, nil
}

// UpdatePreferences applies a partial update and returns the full record.
func (s *Store) UpdatePreferences(ctx context.Context, update *UpdatePreferences) (*Preferences, error) {
	prefs, err := s.driver.UpdatePreferences(ctx, update)
	if err != nil {
		return nil, err
	}
	s.prefsCache.Set(prefsKey(update.UserID), prefs)
	return prefs, nil
}

func userKey(id int32) string {
	return fmt.Sprintf("user:%d", id)
}

func prefsKey(userID int32) string {
	return fmt.Sprintf("prefs:%d", userID)
}
