// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/promptrec/internal/templates"
	"github.com/pdiddy/promptrec/pkg/types"
)

func TestScoreEntry(t *testing.T) {
	tests := []struct {
		name       string
		entry      types.PromptEntry
		category   types.ComboType
		tags       []string
		wantScore  float64
		wantReason string
	}{
		{
			name:       "usage only",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboApp, UsageCount: 4},
			wantScore:  2.0,
			wantReason: "Popular prompt",
		},
		{
			name:       "wildcard entry matches requested category",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboAll},
			category:   types.ComboWeb,
			wantScore:  3.0,
			wantReason: "Combo: web",
		},
		{
			name:       "other category",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboApp, UsageCount: 1},
			category:   types.ComboWeb,
			wantScore:  0.5,
			wantReason: "Popular prompt",
		},
		{
			name:       "tag overlap in entry order",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboApp, Tags: []string{"seo", "Web", "blog"}},
			tags:       []string{"blog", "web"},
			wantScore:  3.0,
			wantReason: "Tags: web, blog",
		},
		{
			name:       "all signals",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboWeb, UsageCount: 2, Tags: []string{"web"}},
			category:   types.ComboWeb,
			tags:       []string{"web"},
			wantScore:  5.5,
			wantReason: "Combo: web · Tags: web",
		},
		{
			name:       "negative usage counts as zero",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboApp, UsageCount: -3},
			wantScore:  0,
			wantReason: "Popular prompt",
		},
		{
			name:       "no category requested ignores wildcard",
			entry:      types.PromptEntry{ID: "p", Combo: types.ComboAll},
			wantScore:  0,
			wantReason: "Popular prompt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreEntry(tt.entry, tt.category, tt.tags)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, types.SourceStored, got.Source)
			assert.NotNil(t, got.Tags)
		})
	}
}

func TestScoreEntry_EmptyComboIsWildcard(t *testing.T) {
	got := scoreEntry(types.PromptEntry{ID: "p"}, types.ComboEnterprise, nil)
	assert.Equal(t, types.ComboAll, got.Category)
	assert.InDelta(t, 3.0, got.Score, 1e-9)
}

func TestFallbackCandidates(t *testing.T) {
	byID := func(cs []types.Candidate) map[string]types.Candidate {
		m := make(map[string]types.Candidate, len(cs))
		for _, c := range cs {
			m[c.ID] = c
		}
		return m
	}

	t.Run("category and tag", func(t *testing.T) {
		got := byID(fallbackCandidates(templates.Builtin(), types.ComboWeb, []string{"web"}))
		require.Len(t, got, 3)

		assert.InDelta(t, 3.0, got["saas-dashboard"].Score, 1e-9)
		assert.Equal(t, "Fallback tag match (web)", got["saas-dashboard"].Reason)
		assert.InDelta(t, 3.0, got["portfolio"].Score, 1e-9)
		assert.InDelta(t, 1.0, got["mobile-shell"].Score, 1e-9)
		assert.Equal(t, "Fallback template", got["mobile-shell"].Reason)
		assert.Equal(t, types.SourceFallback, got["mobile-shell"].Source)
	})

	t.Run("no category requested", func(t *testing.T) {
		got := byID(fallbackCandidates(templates.Builtin(), "", []string{"app"}))
		assert.InDelta(t, 2.0, got["mobile-shell"].Score, 1e-9)
		assert.InDelta(t, 1.0, got["portfolio"].Score, 1e-9)
	})

	t.Run("wildcard template matches any category", func(t *testing.T) {
		tpls := []types.PromptTemplate{{ID: "any", Title: "Any", Content: "x", Combo: types.ComboAll}}
		got := fallbackCandidates(tpls, types.ComboCustom, nil)
		require.Len(t, got, 1)
		assert.InDelta(t, 2.0, got[0].Score, 1e-9)
		assert.NotNil(t, got[0].Tags)
	})
}

func TestRank(t *testing.T) {
	pool := []types.Candidate{
		{ID: "a", Score: 1},
		{ID: "", Score: 9},
		{ID: "b", Score: 3},
		{ID: "a", Score: 7, Source: types.SourceExternal},
		{ID: "c", Score: 1},
		{ID: "d", Score: -2},
	}

	got := rank(pool, 3)
	require.Len(t, got, 4)

	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids, "ties keep merge order")

	assert.InDelta(t, 3.03, got[0].Score, 1e-9)
	assert.InDelta(t, 1.02, got[1].Score, 1e-9)
	assert.InDelta(t, 1.01, got[2].Score, 1e-9)
	assert.InDelta(t, 0.0, got[3].Score, 1e-9, "negative clamped, no bonus past limit")
	assert.Empty(t, got[1].Source, "first occurrence wins")
	for _, c := range got {
		assert.NotNil(t, c.Tags)
	}
}

func TestHead_CopiesTags(t *testing.T) {
	ranked := []types.Candidate{{ID: "a", Tags: []string{"web"}}, {ID: "b", Tags: []string{}}}

	got := head(ranked, 5)
	require.Len(t, got, 2)
	got[0].Tags[0] = "changed"
	assert.Equal(t, "web", ranked[0].Tags[0])

	assert.Len(t, head(ranked, 1), 1)
}
