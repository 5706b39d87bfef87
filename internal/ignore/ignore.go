// Package ignore drops noise lines, such as bare anchors or "version bump
// only" placeholders, from an extracted release note.
package ignore

import (
	"fmt"
	"regexp"
)

// Mode selects how caller patterns combine with the default rules.
type Mode string

const (
	// Append keeps the default rules and adds the caller's patterns after them.
	Append Mode = "append"
	// Replace uses only the caller's patterns.
	Replace Mode = "replace"
)

// Rules is an ordered list of compiled patterns.
type Rules []*regexp.Regexp

var (
	anchorOnly      = regexp.MustCompile(`^<a name=.*></a>`)
	versionBumpOnly = regexp.MustCompile(`^\s*Note: Version bump only`)
)

// Defaults returns a fresh copy of the built-in rules.
func Defaults() Rules {
	return Rules{anchorOnly, versionBumpOnly}
}

// Compile builds a rule set from caller patterns. An empty mode behaves like
// Append. With Replace and no patterns the result is empty, so nothing is
// ignored.
func Compile(patterns []string, mode Mode) (Rules, error) {
	var rules Rules
	switch mode {
	case "", Append:
		rules = Defaults()
	case Replace:
		rules = Rules{}
	default:
		return nil, fmt.Errorf("unknown ignore mode %q (expected %q or %q)", mode, Append, Replace)
	}

	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling ignore rule %q: %w", p, err)
		}
		rules = append(rules, re)
	}
	return rules, nil
}

// ShouldIgnore reports whether any rule matches text.
func (r Rules) ShouldIgnore(text string) bool {
	for _, re := range r {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
