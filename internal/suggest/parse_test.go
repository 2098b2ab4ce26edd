// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/promptrec/pkg/types"
)

func testRequest() types.SuggestionRequest {
	return types.SuggestionRequest{
		Category:      types.ComboWeb,
		Tags:          []string{"landing"},
		EffectiveTags: []string{"analytics", "landing", "marketing", "pricing"},
		Purpose:       "marketing analytics",
	}
}

func TestParse_ValidReply(t *testing.T) {
	raw := `[
	  {"title": "Hero section", "reason": "Fits marketing", "content": "Build a hero", "tags": ["Web", "hero", "web"]},
	  {"title": "Pricing table", "prompt": "Build a pricing table"}
	]`

	got, err := Parse(raw, testRequest())
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.True(t, strings.HasPrefix(first.ID, IDPrefix))
	assert.Equal(t, "Hero section", first.Title)
	assert.Equal(t, "Fits marketing", first.Reason)
	assert.Equal(t, "Fits marketing", first.Summary)
	assert.Equal(t, "Build a hero", first.Content)
	assert.Equal(t, []string{"web", "hero"}, first.Tags)
	assert.Equal(t, SuggestionScore, first.Score)
	assert.Equal(t, types.SourceExternal, first.Source)
	assert.Equal(t, types.ComboWeb, first.Category)

	second := got[1]
	assert.Equal(t, "Build a pricing table", second.Content, "prompt is accepted as content")
	assert.Equal(t, defaultReason, second.Reason)
	assert.Equal(t, []string{"analytics", "landing", "marketing"}, second.Tags, "falls back to first three effective tags")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestParse_DropsItemsWithoutTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing and blank titles", `[{"reason": "no title"}, {"title": "  "}, {"title": "Kept"}]`},
		{"null element", `[null, {"title": "Kept"}]`},
		{"string element", `["a", {"title": "Kept"}]`},
		{"title not string", `[{"title": 42}, {"title": "Kept"}]`},
		{"null title", `[{"title": null}, {"title": "Kept"}]`},
		{"null tags", `[{"title": "Kept", "tags": null}]`},
		{"null reason", `[{"title": "Kept", "reason": null}]`},
		{"tags not strings", `[{"title": "Kept", "tags": [1, 2]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, testRequest())
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Kept", got[0].Title)
			assert.Equal(t, "Kept", got[0].Content, "title doubles as content")
			assert.Equal(t, defaultReason, got[0].Reason)
			assert.Empty(t, got[0].Summary)
			assert.Equal(t, []string{"analytics", "landing", "marketing"}, got[0].Tags)
		})
	}
}

func TestParse_KeepsStringTagsOnly(t *testing.T) {
	got, err := Parse(`[{"title": "Mixed", "tags": [1, "SaaS", null, "web"]}]`, testRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"saas", "web"}, got[0].Tags)
}

func TestParse_NoUsableItems(t *testing.T) {
	got, err := Parse(`[null, 1, {"title": ""}]`, testRequest())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParse_CapsAtThree(t *testing.T) {
	raw := `[{"title":"a"},{"title":"b"},{"title":"c"},{"title":"d"},{"title":"e"}]`

	got, err := Parse(raw, testRequest())
	require.NoError(t, err)
	assert.Len(t, got, MaxSuggestions)
	assert.Equal(t, "c", got[2].Title)
}

func TestParse_CapsTags(t *testing.T) {
	tags := make([]string, 20)
	for i := range tags {
		tags[i] = `"t` + string(rune('a'+i)) + `"`
	}
	raw := `[{"title":"many","tags":[` + strings.Join(tags, ",") + `]}]`

	got, err := Parse(raw, testRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Tags, types.MaxTags)
}

func TestParse_NoCategoryUsesWildcard(t *testing.T) {
	got, err := Parse(`[{"title":"x"}]`, types.SuggestionRequest{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.ComboAll, got[0].Category)
	assert.NotNil(t, got[0].Tags)
	assert.Empty(t, got[0].Tags)
}

func TestParse_CodeFence(t *testing.T) {
	raw := "```json\n[{\"title\": \"Fenced\"}]\n```"

	got, err := Parse(raw, testRequest())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fenced", got[0].Title)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Here are three prompts you might like"},
		{"empty", ""},
		{"null", "null"},
		{"object", `{"title": "single"}`},
		{"number", `42`},
		{"prose around json", `Sure! [{"title": "x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, testRequest())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Nil(t, got)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[]", "[]"},
		{"  []  ", "[]"},
		{"```\n[1]\n```", "[1]"},
		{"```json\n[1]\n```", "[1]"},
		{"```json [1]", "```json [1]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in), "input %q", tt.in)
	}
}

func TestRenderPrompt(t *testing.T) {
	got, err := renderPrompt(testRequest())
	require.NoError(t, err)
	assert.Contains(t, got, "Combo type: web.")
	assert.Contains(t, got, "Tags: landing.")
	assert.Contains(t, got, "Purpose: marketing analytics.")
	assert.Contains(t, got, "JSON array")

	got, err = renderPrompt(types.SuggestionRequest{})
	require.NoError(t, err)
	assert.Contains(t, got, "Combo type: unknown.")
	assert.NotContains(t, got, "Tags:")
	assert.NotContains(t, got, "Purpose:")
}
