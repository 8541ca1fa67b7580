package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/sweepd/internal/engine"
	"github.com/fyrsmithlabs/sweepd/internal/rules"
)

func newTestMatcher(t *testing.T) *engine.Matcher {
	t.Helper()
	m, err := engine.NewMatcher(rules.Default())
	require.NoError(t, err)
	return m
}

func TestMatcherSeverities(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name string
		text string
		want map[engine.Category]int
	}{
		{
			name: "clean text matches nothing",
			text: "Hello, this is a nice day and everything is wonderful.",
			want: map[engine.Category]int{
				engine.CategoryLanguage: 0,
				engine.CategorySexual:   0,
				engine.CategoryViolence: 0,
			},
		},
		{
			name: "empty text matches nothing",
			text: "",
			want: map[engine.Category]int{
				engine.CategoryLanguage: 0,
				engine.CategorySexual:   0,
				engine.CategoryViolence: 0,
			},
		},
		{
			name: "single profanity",
			text: "this is a damn good scene",
			want: map[engine.Category]int{
				engine.CategoryLanguage: 1,
				engine.CategorySexual:   0,
				engine.CategoryViolence: 0,
			},
		},
		{
			name: "repeated signals each count",
			text: "damn damn damn",
			want: map[engine.Category]int{
				engine.CategoryLanguage: 3,
				engine.CategorySexual:   0,
				engine.CategoryViolence: 0,
			},
		},
		{
			name: "multiple violence signals",
			text: "He was shot and killed in the fight",
			want: map[engine.Category]int{
				engine.CategoryLanguage: 0,
				engine.CategorySexual:   0,
				engine.CategoryViolence: 3,
			},
		},
		{
			name: "mixed categories",
			text: "This damn violent sexual scene",
			want: map[engine.Category]int{
				engine.CategoryLanguage: 1,
				engine.CategorySexual:   1,
				engine.CategoryViolence: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.text))
		})
	}
}

func TestMatcherIsCaseInsensitive(t *testing.T) {
	m := newTestMatcher(t)

	severities := m.Match("DAMN, that was Violent")
	assert.Equal(t, 1, severities[engine.CategoryLanguage])
	assert.Equal(t, 1, severities[engine.CategoryViolence])
}

func TestMatcherRespectsWordBoundaries(t *testing.T) {
	m := newTestMatcher(t)

	// "architect" contains "hit", "assessment" contains "ass", "guns" is
	// not "gun". None of these are matches.
	tests := []string{
		"the architect drew a classic assessment",
		"she hits the high note", // "hits" is not the signal "hit"
		"a skilled dieter",       // "dieter" contains "die"
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			for cat, severity := range m.Match(text) {
				assert.Zero(t, severity, "category %s should not match %q", cat, text)
			}
		})
	}
}

func TestMatcherMatchesPhrases(t *testing.T) {
	rs := rules.Default()
	rs.Categories[string(engine.CategoryViolence)] = engine.CategoryRules{
		Signals: []string{"beaten up"},
	}
	m, err := engine.NewMatcher(rs)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Match("he was beaten  up outside")[engine.CategoryViolence])
	assert.Equal(t, 0, m.Match("the beaten path leads up")[engine.CategoryViolence])
}

func TestNewMatcherRejectsEmptySignalSet(t *testing.T) {
	rs := rules.Default()
	rs.Categories[string(engine.CategorySexual)] = engine.CategoryRules{Signals: nil}

	_, err := engine.NewMatcher(rs)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
}
