package store

import (
	"github.com/pkg/errors"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists indicates a uniqueness conflict, e.g. a duplicate
// username.
var ErrAlreadyExists = errors.New("already exists")

// User is an account that owns filtering preferences.
type User struct {
	ID        int32
	UID       string
	Username  string
	CreatedTs int64
}

// Preferences is a user's content-filtering record. Preferences are created
// with defaults when the user is created, mutated only through explicit
// updates, and deleted only with the user.
type Preferences struct {
	UserID                   int32  `json:"user_id"`
	LanguageFilter           bool   `json:"language_filter"`
	SexualContentFilter      bool   `json:"sexual_content_filter"`
	ViolenceFilter           bool   `json:"violence_filter"`
	LanguageSensitivity      string `json:"language_sensitivity"`
	SexualContentSensitivity string `json:"sexual_content_sensitivity"`
	ViolenceSensitivity      string `json:"violence_sensitivity"`
	UpdatedTs                int64  `json:"-"`
}

// DefaultSensitivity is applied to every category when a user is created.
const DefaultSensitivity = "medium"

// DefaultPreferences returns the preferences a new user starts with: all
// filters enabled at medium sensitivity.
func DefaultPreferences(userID int32) *Preferences {
	return &Preferences{
		UserID:                   userID,
		LanguageFilter:           true,
		SexualContentFilter:      true,
		ViolenceFilter:           true,
		LanguageSensitivity:      DefaultSensitivity,
		SexualContentSensitivity: DefaultSensitivity,
		ViolenceSensitivity:      DefaultSensitivity,
	}
}

// UpdatePreferences is a partial preferences update; nil fields retain their
// prior value.
type UpdatePreferences struct {
	UserID                   int32
	LanguageFilter           *bool
	SexualContentFilter      *bool
	ViolenceFilter           *bool
	LanguageSensitivity      *string
	SexualContentSensitivity *string
	ViolenceSensitivity      *string
}

// IsEmpty reports whether the update carries no fields.
func (u *UpdatePreferences) IsEmpty() bool {
	return u.LanguageFilter == nil && u.SexualContentFilter == nil && u.ViolenceFilter == nil &&
		u.LanguageSensitivity == nil && u.SexualContentSensitivity == nil && u.ViolenceSensitivity == nil
}
