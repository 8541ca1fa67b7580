package postgres

import (
	"context"
	"database/sql"
	"fmt"
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
		WHERE user_id = $1`
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
	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if v := update.LanguageFilter; v != nil {
		add("language_filter", *v)
	}
	if v := update.SexualContentFilter; v != nil {
		add("sexual_content_filter", *v)
	}
	if v := update.ViolenceFilter; v != nil {
		add("violence_filter", *v)
	}
	if v := update.LanguageSensitivity; v != nil {
		add("language_sensitivity", *v)
	}
	if v := update.SexualContentSensitivity; v != nil {
		add("sexual_content_sensitivity", *v)
	}
	if v := update.ViolenceSensitivity; v != nil {
		add("violence_sensitivity", *v)
	}
	if len(set) == 0 {
		return d.GetPreferences(ctx, update.UserID)
	}
	set = append(set, "updated_ts = EXTRACT(EPOCH FROM NOW())")
	args = append(args, update.UserID)

	stmt := `UPDATE user_preferences SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE user_id = $%d`, len(args))
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
