package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher scans text for category signals. It is compiled once from a
// ruleset and is safe for concurrent use; matching is a pure in-memory
// computation with no side effects.
type Matcher struct {
	patterns map[Category]*regexp.Regexp
}

// NewMatcher compiles one case-insensitive, word-boundary-aware pattern per
// category from the ruleset's signal sets. Multi-word signals are matched as
// phrases.
func NewMatcher(rs *Ruleset) (*Matcher, error) {
	patterns := make(map[Category]*regexp.Regexp, len(Categories))
	for _, cat := range Categories {
		rules, ok := rs.Categories[string(cat)]
		if !ok || len(rules.Signals) == 0 {
			return nil, fmt.Errorf("%w: category %q has no signal set", ErrInvalidConfiguration, cat)
		}

		alternatives := make([]string, 0, len(rules.Signals))
		for _, signal := range rules.Signals {
			signal = strings.TrimSpace(signal)
			if signal == "" {
				continue
			}
			// Collapse whitespace inside phrases so "beaten up" matches
			// across any run of spaces in the caption text.
			words := strings.Fields(signal)
			quoted := make([]string, len(words))
			for i, w := range words {
				quoted[i] = regexp.QuoteMeta(w)
			}
			alternatives = append(alternatives, strings.Join(quoted, `\s+`))
		}
		if len(alternatives) == 0 {
			return nil, fmt.Errorf("%w: category %q has an empty signal set", ErrInvalidConfiguration, cat)
		}

		// Word boundaries keep substrings inside larger words from counting,
		// e.g. "hit" must not match "architect".
		expr := `(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: category %q signals do not compile: %v", ErrInvalidConfiguration, cat, err)
		}
		patterns[cat] = re
	}
	return &Matcher{patterns: patterns}, nil
}

// Match returns the severity per category: the count of non-overlapping
// signal occurrences in the text. Repeated signals each count. Empty or
// non-matching text yields zero for every category.
func (m *Matcher) Match(text string) map[Category]int {
	severities := make(map[Category]int, len(m.patterns))
	for cat := range m.patterns {
		severities[cat] = 0
	}
	if text == "" {
		return severities
	}
	for cat, re := range m.patterns {
		severities[cat] = len(re.FindAllStringIndex(text, -1))
	}
	return severities
}
