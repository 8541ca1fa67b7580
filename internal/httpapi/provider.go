package httpapi

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// Store is what the HTTP layer needs from the persistence layer. Tests
// substitute an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, create *store.User) (*store.User, error)
	GetUser(ctx context.Context, id int32) (*store.User, error)
	GetPreferences(ctx context.Context, userID int32) (*store.Preferences, error)
	UpdatePreferences(ctx context.Context, update *store.UpdatePreferences) (*store.Preferences, error)
}

// PreferencesProvider adapts a Store to the engine's capability interface.
type PreferencesProvider struct {
	Store Store
}

// GetPreferences maps stored preference rows into engine preferences.
// Sensitivity strings are passed through unvalidated; the engine rejects
// unknown values with its InvalidConfiguration error rather than having this
// adapter silently repair them.
func (p *PreferencesProvider) GetPreferences(ctx context.Context, userID int32) (engine.Preferences, error) {
	prefs, err := p.Store.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return engine.Preferences{}, engine.ErrUserNotFound
		}
		return engine.Preferences{}, err
	}
	return engine.Preferences{
		LanguageFilter:      prefs.LanguageFilter,
		SexualFilter:        prefs.SexualContentFilter,
		ViolenceFilter:      prefs.ViolenceFilter,
		LanguageSensitivity: engine.Sensitivity(prefs.LanguageSensitivity),
		SexualSensitivity:   engine.Sensitivity(prefs.SexualContentSensitivity),
		ViolenceSensitivity: engine.Sensitivity(prefs.ViolenceSensitivity),
	}, nil
}
