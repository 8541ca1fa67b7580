package engine

// Evaluate decides whether one category fires for the observed severity and,
// if so, which action and duration it demands.
//
// A disabled filter never fires, regardless of severity. When enabled, the
// sensitivity's threshold from the ruleset gates firing, and the action and
// duration come from the (category, sensitivity) lookup table. Unknown
// category or sensitivity values fail with ErrInvalidConfiguration instead
// of defaulting, so a corrupt preference record cannot be masked.
func (r *Ruleset) Evaluate(cat Category, severity int, enabled bool, sens Sensitivity) (CategoryOutcome, error) {
	if _, err := ParseCategory(string(cat)); err != nil {
		return CategoryOutcome{Action: ActionNone}, err
	}
	if _, err := ParseSensitivity(string(sens)); err != nil {
		return CategoryOutcome{Action: ActionNone}, err
	}

	if !enabled {
		return CategoryOutcome{Fires: false, Action: ActionNone, DurationSeconds: 0}, nil
	}

	threshold, err := r.ThresholdFor(sens)
	if err != nil {
		return CategoryOutcome{Action: ActionNone}, err
	}
	if severity < threshold {
		return CategoryOutcome{Fires: false, Action: ActionNone, DurationSeconds: 0}, nil
	}

	action, duration, err := r.ActionFor(cat, sens)
	if err != nil {
		return CategoryOutcome{Action: ActionNone}, err
	}
	return CategoryOutcome{Fires: true, Action: action, DurationSeconds: duration}, nil
}
