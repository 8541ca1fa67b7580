// Package engine implements the playback decision core: category matching
// over caption text, sensitivity evaluation, and cross-category resolution
// into a single playback-control action.
package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration indicates an unknown category, sensitivity, or
// action value reached the engine. These are never silently defaulted; a
// misconfigured preference record must surface at the boundary.
var ErrInvalidConfiguration = errors.New("invalid engine configuration")

// ErrUserNotFound is returned by a PreferencesProvider when the user does
// not exist.
var ErrUserNotFound = errors.New("user not found")

// Category is a closed set of content categories the engine detects.
type Category string

const (
	CategoryLanguage Category = "language"
	CategorySexual   Category = "sexual"
	CategoryViolence Category = "violence"
)

// Categories lists all categories in priority order (highest first).
// When multiple categories fire, the highest-priority one is reported as
// the matched category.
var Categories = []Category{CategorySexual, CategoryViolence, CategoryLanguage}

// ParseCategory validates a category value.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryLanguage, CategorySexual, CategoryViolence:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidConfiguration, s)
}

// Sensitivity is a closed set of per-category sensitivity levels.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Sensitivities lists all sensitivity levels from least to most strict.
var Sensitivities = []Sensitivity{SensitivityLow, SensitivityMedium, SensitivityHigh}

// ParseSensitivity validates a sensitivity value.
func ParseSensitivity(s string) (Sensitivity, error) {
	switch Sensitivity(s) {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return Sensitivity(s), nil
	}
	return "", fmt.Errorf("%w: unknown sensitivity %q", ErrInvalidConfiguration, s)
}

// Action is a playback-control action, totally ordered by restrictiveness:
// none < mute < fast_forward < skip.
type Action string

const (
	ActionNone        Action = "none"
	ActionMute        Action = "mute"
	ActionFastForward Action = "fast_forward"
	ActionSkip        Action = "skip"
)

// ParseAction validates an action value.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionNone, ActionMute, ActionFastForward, ActionSkip:
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidConfiguration, s)
}

// Restrictiveness returns the restrictiveness rank of the action; a higher
// value always overrides a lower one when multiple categories fire.
func (a Action) Restrictiveness() int {
	switch a {
	case ActionSkip:
		return 3
	case ActionFastForward:
		return 2
	case ActionMute:
		return 1
	}
	return 0
}

// MoreRestrictiveThan reports whether a is strictly more restrictive than b.
func (a Action) MoreRestrictiveThan(b Action) bool {
	return a.Restrictiveness() > b.Restrictiveness()
}

// Preferences is a user's content-filtering configuration as the engine
// consumes it. Sensitivity values are already validated variants; the
// provider is responsible for rejecting open strings at the boundary.
type Preferences struct {
	LanguageFilter      bool
	SexualFilter        bool
	ViolenceFilter      bool
	LanguageSensitivity Sensitivity
	SexualSensitivity   Sensitivity
	ViolenceSensitivity Sensitivity
}

// Enabled reports whether filtering is enabled for the category.
func (p Preferences) Enabled(c Category) bool {
	switch c {
	case CategoryLanguage:
		return p.LanguageFilter
	case CategorySexual:
		return p.SexualFilter
	case CategoryViolence:
		return p.ViolenceFilter
	}
	return false
}

// SensitivityFor returns the sensitivity configured for the category.
func (p Preferences) SensitivityFor(c Category) Sensitivity {
	switch c {
	case CategoryLanguage:
		return p.LanguageSensitivity
	case CategorySexual:
		return p.SexualSensitivity
	case CategoryViolence:
		return p.ViolenceSensitivity
	}
	return ""
}

// CategoryOutcome is the result of evaluating one category against one text
// input. It exists only within a single decision call.
type CategoryOutcome struct {
	Fires           bool
	Action          Action
	DurationSeconds int
}

// Decision is the final, externally visible result of a structured decision.
type Decision struct {
	Action          Action    `json:"action"`
	DurationSeconds int       `json:"duration_seconds"`
	MatchedCategory *Category `json:"matched_category"`
	Reason          string    `json:"reason"`
}
