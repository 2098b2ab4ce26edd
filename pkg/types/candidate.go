// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for promptrec: combo types,
// prompt library entries, fallback templates, usage logs, recommendation
// candidates, and configuration.
package types

import "strings"

// ComboType scopes prompts and templates to a product use-case segment.
type ComboType string

const (
	ComboEnterprise ComboType = "enterprise"
	ComboWeb        ComboType = "web"
	ComboApp        ComboType = "app"
	ComboCustom     ComboType = "custom"

	// ComboAll is the wildcard category; it matches any requested combo.
	ComboAll ComboType = "all"
)

// ComboTypes lists the concrete combo types in display order.
var ComboTypes = []ComboType{ComboEnterprise, ComboWeb, ComboApp, ComboCustom}

// Valid reports whether c is a known combo type or the wildcard.
func (c ComboType) Valid() bool {
	switch c {
	case ComboEnterprise, ComboWeb, ComboApp, ComboCustom, ComboAll:
		return true
	}
	return false
}

// Matches reports whether an item tagged with c should be offered for a
// request scoped to requested. The wildcard matches every request.
func (c ComboType) Matches(requested ComboType) bool {
	return c == requested || c == ComboAll
}

// ParseComboType normalizes s and returns the matching combo type. The empty
// string maps to the empty ComboType, meaning "no category requested".
func ParseComboType(s string) (ComboType, bool) {
	c := ComboType(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return "", true
	}
	return c, c.Valid()
}

// Source labels where a Candidate came from. It is shown in the UI and never
// feeds into scoring.
type Source string

const (
	SourceStored   Source = "stored"
	SourceFallback Source = "fallback"
	SourceExternal Source = "external"
)

// Candidate is a single prompt recommendation.
type Candidate struct {
	// ID identifies the candidate across sources; dedup keeps the first
	// occurrence in merge order.
	ID string `json:"id" yaml:"id"`

	Title    string    `json:"title" yaml:"title"`
	Summary  string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Category ComboType `json:"category" yaml:"category"`

	// Tags is a lowercase set. It is never nil.
	Tags []string `json:"tags" yaml:"tags"`

	Content string `json:"content" yaml:"content"`

	// Score is non-negative; higher is more relevant.
	Score float64 `json:"score" yaml:"score"`

	// Reason explains the recommendation to a human reader.
	Reason string `json:"reason" yaml:"reason"`

	Source Source `json:"source" yaml:"source"`
}

// NormalizeTags trims and lowercases tags, drops empties and duplicates, and
// keeps at most max entries (max <= 0 means no cap). The result is never nil.
func NormalizeTags(tags []string, max int) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// MaxTags is the per-entry tag cap applied to stored and suggested prompts.
const MaxTags = 12

// SuggestionRequest is what the external suggester sees of a recommendation
// request.
type SuggestionRequest struct {
	// Category is the requested combo type, or empty when none was requested.
	Category ComboType

	// Tags are the caller-supplied tags, normalized.
	Tags []string

	// EffectiveTags is the union of Tags and the words extracted from Purpose.
	EffectiveTags []string

	Purpose string
}
