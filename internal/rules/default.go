// Package rules loads and watches the engine's decision ruleset: the
// per-category signal sets, sensitivity thresholds, and action tables.
// The ruleset is configuration, not code; operators can replace the keyword
// lists and durations without redeploying the engine.
package rules

import "github.com/fyrsmithlabs/sweepd/internal/engine"

// Default returns the built-in ruleset used when no rules file is
// configured.
//
// Thresholds: low fires only on repeated matches, medium and high fire on a
// single match. Actions escalate with sensitivity within each category:
// profanity is always a brief mute, sexual content escalates to a scene
// skip at high sensitivity, violence escalates through fast-forward to skip.
func Default() *engine.Ruleset {
	return &engine.Ruleset{
		Categories: map[string]engine.CategoryRules{
			string(engine.CategoryLanguage): {
				Signals: []string{
					"damn", "hell", "crap", "shit", "fuck", "fucking",
					"bitch", "bastard", "ass", "asshole", "piss",
					"dick", "prick", "douche", "goddamn",
				},
			},
			string(engine.CategorySexual): {
				Signals: []string{
					"sex", "sexual", "naked", "nude", "explicit",
					"rape", "assault", "abuse",
					"intercourse", "seduce", "seduction",
				},
			},
			string(engine.CategoryViolence): {
				Signals: []string{
					"kill", "killed", "murder", "shot", "shoot", "stab",
					"blood", "violence", "violent", "attack", "fight",
					"gun", "weapon",
					"death", "die", "dying", "dead",
					"assault", "beat", "beating", "punch", "hit",
				},
			},
		},
		Thresholds: map[string]int{
			string(engine.SensitivityLow):    2,
			string(engine.SensitivityMedium): 1,
			string(engine.SensitivityHigh):   1,
		},
		Actions: map[string]map[string]engine.ActionRule{
			string(engine.CategoryLanguage): {
				string(engine.SensitivityLow):    {Action: string(engine.ActionMute), DurationSeconds: 5},
				string(engine.SensitivityMedium): {Action: string(engine.ActionMute), DurationSeconds: 10},
				string(engine.SensitivityHigh):   {Action: string(engine.ActionMute), DurationSeconds: 15},
			},
			string(engine.CategorySexual): {
				string(engine.SensitivityLow):    {Action: string(engine.ActionMute), DurationSeconds: 5},
				string(engine.SensitivityMedium): {Action: string(engine.ActionMute), DurationSeconds: 10},
				string(engine.SensitivityHigh):   {Action: string(engine.ActionSkip), DurationSeconds: 30},
			},
			string(engine.CategoryViolence): {
				string(engine.SensitivityLow):    {Action: string(engine.ActionMute), DurationSeconds: 5},
				string(engine.SensitivityMedium): {Action: string(engine.ActionFastForward), DurationSeconds: 15},
				string(engine.SensitivityHigh):   {Action: string(engine.ActionSkip), DurationSeconds: 30},
			},
		},
	}
}
