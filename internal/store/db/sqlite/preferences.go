package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyrsmithlabs/sweepd/internal/store"
)

func (d *DB) GetPreferences(ctx context.Context, userID int32) (*store.Preferences, error) {
	prefs := &store.Preferences{}
	stmt := `
		SELECT
			user_id, language_filter, sexual_content_filter, violence_filter,
			language_sensitivity, sexual_content_sensitivity, violence_sensitivity,
			updated_ts
		FROM user_preferences
		WHERE user_id = ?`
	if err := d.db.QueryRowContext(ctx, stmt, userID).Scan(
		&prefs.UserID,
		&prefs.LanguageFilter,
		&prefs.SexualContentFilter,
		&prefs.ViolenceFilter,
		&prefs.LanguageSensitivity,
		&prefs.SexualContentSensitivity,
		&prefs.ViolenceSensitivity,
		&prefs.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get preferences")
	}
	return prefs, nil
}

func (d *DB) UpdatePreferences(ctx context.Context, update *store.UpdatePreferences) (*store.Preferences, error) {
	set, args := []string{}, []any{}
	if v := update.LanguageFilter; v != nil {
		set, args = append(set, "language_filter = ?"), append(args, *v)
	}
	if v := update.SexualContentFilter; v != nil {
		set, args = append(set, "sexual_content_filter = ?"), append(args, *v)
	}
	if v := update.ViolenceFilter; v != nil {
		set, args = append(set, "violence_filter = ?"), append(args, *v)
	}
	if v := update.LanguageSensitivity; v != nil {
		set, args = append(set, "language_sensitivity = ?"), append(args, *v)
	}
	if v := update.SexualContentSensitivity; v != nil {
		set, args = append(set, "sexual_content_sensitivity = ?"), append(args, *v)
	}
	if v := update.ViolenceSensitivity; v != nil {
		set, args = append(set, "violence_sensitivity = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return d.GetPreferences(ctx, update.UserID)
	}
	set = append(set, "updated_ts = strftime('%s', 'now')")
	args = append(args, update.UserID)

	stmt := `UPDATE user_preferences SET ` + strings.Join(set, ", ") + ` WHERE user_id = ?`
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update preferences")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read update result")
	}
	if rows == 0 {
		return nil, store.ErrNotFound
	}
	return d.GetPreferences(ctx, update.UserID)
}
