package engine

import "fmt"

// reasonNoMatch is the reason reported when no category fires.
const reasonNoMatch = "No match"

// Resolve combines per-category outcomes into one Decision.
//
// Only firing outcomes are considered. The matched category is chosen by the
// fixed priority order sexual > violence > language, independent of severity
// magnitude. The applied action and duration, however, are the most
// restrictive among all firing outcomes; priority governs which category is
// reported, restrictiveness governs what the client does. The two rules can
// disagree when the priority category's own action is weaker than a
// lower-priority category's.
func Resolve(outcomes map[Category]CategoryOutcome, severities map[Category]int, prefs Preferences) Decision {
	var matched *Category
	var action Action = ActionNone
	duration := 0

	// Categories is ordered by priority, so the first firing entry wins the
	// matched-category slot.
	for _, cat := range Categories {
		outcome, ok := outcomes[cat]
		if !ok || !outcome.Fires {
			continue
		}
		if matched == nil {
			c := cat
			matched = &c
		}
		if outcome.Action.MoreRestrictiveThan(action) {
			action = outcome.Action
			duration = outcome.DurationSeconds
		}
	}

	if matched == nil {
		return Decision{
			Action:          ActionNone,
			DurationSeconds: 0,
			MatchedCategory: nil,
			Reason:          reasonNoMatch,
		}
	}

	return Decision{
		Action:          action,
		DurationSeconds: duration,
		MatchedCategory: matched,
		Reason: fmt.Sprintf("%s content detected; sensitivity=%s; severity=%d",
			*matched, prefs.SensitivityFor(*matched), severities[*matched]),
	}
}
