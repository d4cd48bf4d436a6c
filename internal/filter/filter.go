// Package filter decides which archive entries become scenario elements.
package filter

import (
	"strings"

	"github.com/raysh454/harplay/internal/model"
)

// Verdict is the outcome of checking one entry.
type Verdict int

const (
	Kept Verdict = iota
	DroppedConnect
	DroppedInvalidURL
	DroppedByRule
)

func (v Verdict) String() string {
	switch v {
	case Kept:
		return "kept"
	case DroppedConnect:
		return "connect"
	case DroppedInvalidURL:
		return "invalid_url"
	case DroppedByRule:
		return "rule"
	}
	return "unknown"
}

// Filter drops tunnels, unusable URLs and anything the configured rules
// reject. Dropped entries are not reported.
type Filter struct {
	Rules Rules
}

// Check runs the checks in order and stops at the first failure.
func (f Filter) Check(e model.Entry) Verdict {
	if strings.EqualFold(e.Request.Method, "CONNECT") {
		return DroppedConnect
	}
	if _, err := parseAbsolute(e.Request.URL); err != nil {
		return DroppedInvalidURL
	}
	if !f.Rules.Accept(e.Request.URL) {
		return DroppedByRule
	}
	return Kept
}

func (f Filter) Keep(e model.Entry) bool {
	return f.Check(e) == Kept
}

// Apply returns the kept entries in their original order.
func (f Filter) Apply(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Keep(e) {
			out = append(out, e)
		}
	}
	return out
}
