package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
	"github.com/fyrsmithlabs/sweepd/internal/rules"
)

func TestEvaluateThresholds(t *testing.T) {
	rs := rules.Default()

	tests := []struct {
		name         string
		cat          engine.Category
		severity     int
		sens         engine.Sensitivity
		wantFires    bool
		wantAction   engine.Action
		wantDuration int
	}{
		{
			name:     "zero severity never fires",
			cat:      engine.CategoryLanguage,
			severity: 0, sens: engine.SensitivityHigh,
			wantFires: false, wantAction: engine.ActionNone,
		},
		{
			name:     "low needs repeated matches",
			cat:      engine.CategoryViolence,
			severity: 1, sens: engine.SensitivityLow,
			wantFires: false, wantAction: engine.ActionNone,
		},
		{
			name:     "low fires at two matches",
			cat:      engine.CategoryViolence,
			severity: 2, sens: engine.SensitivityLow,
			wantFires: true, wantAction: engine.ActionMute, wantDuration: 5,
		},
		{
			name:     "medium fires on a single match",
			cat:      engine.CategoryLanguage,
			severity: 1, sens: engine.SensitivityMedium,
			wantFires: true, wantAction: engine.ActionMute, wantDuration: 10,
		},
		{
			name:     "high fires on a single match",
			cat:      engine.CategorySexual,
			severity: 1, sens: engine.SensitivityHigh,
			wantFires: true, wantAction: engine.ActionSkip, wantDuration: 30,
		},
		{
			name:     "violence at medium fast-forwards",
			cat:      engine.CategoryViolence,
			severity: 3, sens: engine.SensitivityMedium,
			wantFires: true, wantAction: engine.ActionFastForward, wantDuration: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := rs.Evaluate(tt.cat, tt.severity, true, tt.sens)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFires, outcome.Fires)
			assert.Equal(t, tt.wantAction, outcome.Action)
			assert.Equal(t, tt.wantDuration, outcome.DurationSeconds)
		})
	}
}

func TestEvaluateDisabledFilterNeverFires(t *testing.T) {
	rs := rules.Default()

	outcome, err := rs.Evaluate(engine.CategoryViolence, 10, false, engine.SensitivityHigh)
	require.NoError(t, err)
	assert.False(t, outcome.Fires)
	assert.Equal(t, engine.ActionNone, outcome.Action)
	assert.Zero(t, outcome.DurationSeconds)
}

func TestEvaluateRejectsUnknownValues(t *testing.T) {
	rs := rules.Default()

	t.Run("unknown sensitivity", func(t *testing.T) {
		_, err := rs.Evaluate(engine.CategoryLanguage, 1, true, engine.Sensitivity("extreme"))
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := rs.Evaluate(engine.Category("politics"), 1, true, engine.SensitivityMedium)
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
	})
}
