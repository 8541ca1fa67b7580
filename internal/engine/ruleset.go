package engine

import (
	"fmt"
)

// ActionRule is one cell of the (category, sensitivity) lookup table: the
// action demanded when the category fires at that sensitivity, and how long
// the client should apply it.
type ActionRule struct {
	Action          string `koanf:"action" yaml:"action"`
	DurationSeconds int    `koanf:"duration_seconds" yaml:"duration_seconds"`
}

// CategoryRules holds the fixed reference signals for one category.
type CategoryRules struct {
	Signals []string `koanf:"signals" yaml:"signals"`
}

// Ruleset is the externally loadable decision configuration: per-category
// signal sets, sensitivity firing thresholds, and the per-(category,
// sensitivity) action table. It is data, not code, so signal lists and
// durations can change without redeploying the engine.
type Ruleset struct {
	Categories map[string]CategoryRules     `koanf:"categories" yaml:"categories"`
	Thresholds map[string]int               `koanf:"thresholds" yaml:"thresholds"`
	Actions    map[string]map[string]ActionRule `koanf:"actions" yaml:"actions"`
}

// Validate checks the ruleset for structural completeness and internal
// consistency. Every category must carry signals and a full action row with
// positive durations, every sensitivity must carry a threshold >= 1, and
// within a category a higher sensitivity must never yield a strictly less
// restrictive action than a lower one.
func (r *Ruleset) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil ruleset", ErrInvalidConfiguration)
	}

	for name := range r.Categories {
		if _, err := ParseCategory(name); err != nil {
			return err
		}
	}
	for name := range r.Thresholds {
		if _, err := ParseSensitivity(name); err != nil {
			return err
		}
	}

	for _, cat := range Categories {
		rules, ok := r.Categories[string(cat)]
		if !ok {
			return fmt.Errorf("%w: category %q has no signal set", ErrInvalidConfiguration, cat)
		}
		if len(rules.Signals) == 0 {
			return fmt.Errorf("%w: category %q has an empty signal set", ErrInvalidConfiguration, cat)
		}
		for _, signal := range rules.Signals {
			if signal == "" {
				return fmt.Errorf("%w: category %q contains an empty signal", ErrInvalidConfiguration, cat)
			}
		}
	}

	for _, sens := range Sensitivities {
		threshold, ok := r.Thresholds[string(sens)]
		if !ok {
			return fmt.Errorf("%w: sensitivity %q has no threshold", ErrInvalidConfiguration, sens)
		}
		if threshold < 1 {
			return fmt.Errorf("%w: sensitivity %q threshold must be >= 1, got %d", ErrInvalidConfiguration, sens, threshold)
		}
	}

	for _, cat := range Categories {
		row, ok := r.Actions[string(cat)]
		if !ok {
			return fmt.Errorf("%w: category %q has no action table", ErrInvalidConfiguration, cat)
		}

		prev := ActionNone
		for _, sens := range Sensitivities {
			rule, ok := row[string(sens)]
			if !ok {
				return fmt.Errorf("%w: category %q has no action for sensitivity %q", ErrInvalidConfiguration, cat, sens)
			}
			action, err := ParseAction(rule.Action)
			if err != nil {
				return err
			}
			if action == ActionNone {
				return fmt.Errorf("%w: category %q sensitivity %q maps to action none", ErrInvalidConfiguration, cat, sens)
			}
			// A firing action always carries a duration; only the none
			// decision has duration zero.
			if rule.DurationSeconds <= 0 {
				return fmt.Errorf("%w: category %q sensitivity %q needs a positive duration, got %d",
					ErrInvalidConfiguration, cat, sens, rule.DurationSeconds)
			}
			// Monotonicity: raising sensitivity must never weaken the action.
			if prev.MoreRestrictiveThan(action) {
				return fmt.Errorf("%w: category %q action for %q (%s) is less restrictive than the one below it (%s)",
					ErrInvalidConfiguration, cat, sens, action, prev)
			}
			prev = action
		}
	}

	return nil
}

// ActionFor returns the validated action/duration for a (category,
// sensitivity) pair. The ruleset must have been validated; missing entries
// still fail with ErrInvalidConfiguration rather than defaulting.
func (r *Ruleset) ActionFor(cat Category, sens Sensitivity) (Action, int, error) {
	row, ok := r.Actions[string(cat)]
	if !ok {
		return ActionNone, 0, fmt.Errorf("%w: category %q has no action table", ErrInvalidConfiguration, cat)
	}
	rule, ok := row[string(sens)]
	if !ok {
		return ActionNone, 0, fmt.Errorf("%w: category %q has no action for sensitivity %q", ErrInvalidConfiguration, cat, sens)
	}
	action, err := ParseAction(rule.Action)
	if err != nil {
		return ActionNone, 0, err
	}
	return action, rule.DurationSeconds, nil
}

// ThresholdFor returns the firing threshold for a sensitivity level.
func (r *Ruleset) ThresholdFor(sens Sensitivity) (int, error) {
	threshold, ok := r.Thresholds[string(sens)]
	if !ok {
		return 0, fmt.Errorf("%w: sensitivity %q has no threshold", ErrInvalidConfiguration, sens)
	}
	return threshold, nil
}
