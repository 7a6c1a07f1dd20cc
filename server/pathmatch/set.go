// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pathmatch

// Set is an immutable list of compiled patterns.
type Set struct {
	patterns []Pattern
}

// NewSet compiles every pattern, failing on the first invalid one.
func NewSet(patterns ...string) (*Set, error) {
	set := &Set{patterns: make([]Pattern, 0, len(patterns))}

	for _, raw := range patterns {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}

		set.patterns = append(set.patterns, p)
	}

	return set, nil
}

// Match reports whether any pattern in the set matches path.
//
// A nil or empty set matches nothing.
func (s *Set) Match(path string) bool {
	if s == nil {
		return false
	}

	for _, p := range s.patterns {
		if p.Match(path) {
			return true
		}
	}

	return false
}

// Patterns returns a copy of the source patterns.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}

	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.String()
	}

	return out
}
