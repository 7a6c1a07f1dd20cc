// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pathmatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is returned by Compile for malformed patterns.
var ErrInvalidPattern = errors.New("invalid path pattern")

type segmentKind int

const (
	literal segmentKind = iota
	one                 // :name
	optional            // :name?
	zeroOrMore          // :name*
	oneOrMore           // :name+
)

type segment struct {
	kind  segmentKind
	value string // literal text or parameter name
}

// Pattern is a compiled matcher pattern. The zero value matches nothing.
type Pattern struct {
	source   string
	segments []segment
}

// Compile parses a pattern string.
func Compile(pattern string) (Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return Pattern{}, fmt.Errorf("%w %q: must start with \"/\"", ErrInvalidPattern, pattern)
	}

	parts := splitPath(pattern)
	segments := make([]segment, 0, len(parts))

	for i, part := range parts {
		if part == "" {
			return Pattern{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPattern, pattern)
		}

		if part[0] != ':' {
			segments = append(segments, segment{kind: literal, value: part})

			continue
		}

		seg := segment{kind: one, value: part[1:]}

		switch part[len(part)-1] {
		case '?':
			seg.kind, seg.value = optional, part[1:len(part)-1]
		case '*':
			seg.kind, seg.value = zeroOrMore, part[1:len(part)-1]
		case '+':
			seg.kind, seg.value = oneOrMore, part[1:len(part)-1]
		}

		if !validName(seg.value) {
			return Pattern{}, fmt.Errorf("%w %q: bad parameter name in %q", ErrInvalidPattern, pattern, part)
		}

		if seg.kind != one && i != len(parts)-1 {
			return Pattern{}, fmt.Errorf("%w %q: %q must be the last segment", ErrInvalidPattern, pattern, part)
		}

		segments = append(segments, seg)
	}

	return Pattern{source: pattern, segments: segments}, nil
}

// MustCompile is like Compile but panics on error.
//
// It is meant for patterns declared as package-level variables.
func MustCompile(pattern string) Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the source pattern.
func (p Pattern) String() string {
	return p.source
}

// Match reports whether path matches the pattern.
func (p Pattern) Match(path string) bool {
	if p.source == "" || !strings.HasPrefix(path, "/") {
		return false
	}

	parts := splitPath(path)

	for i, seg := range p.segments {
		remaining := len(parts) - i

		switch seg.kind {
		case literal:
			if remaining < 1 || parts[i] != seg.value {
				return false
			}
		case one:
			if remaining < 1 || parts[i] == "" {
				return false
			}
		case optional:
			return remaining <= 1
		case zeroOrMore:
			return true
		case oneOrMore:
			return remaining >= 1
		}
	}

	return len(parts) == len(p.segments)
}

// splitPath splits a path into segments, ignoring the leading and trailing slash.
//
// The root path yields no segments.
func splitPath(path string) []string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}

func validName(name string) bool {
	if name == "" {
		return false
	}

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}

	return true
}
