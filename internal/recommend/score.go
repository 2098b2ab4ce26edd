// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"strings"

	"github.com/pdiddy/promptrec/pkg/types"
)

// Scoring weights for stored library entries.
const (
	usageWeight    = 0.5
	categoryWeight = 3.0
	tagWeight      = 1.5
)

const reasonSeparator = " · "

// scoreEntry turns a stored library entry into a candidate. Usage, category
// match, and tag overlap each contribute to the score; the reason lists the
// matched signals.
func scoreEntry(entry types.PromptEntry, category types.ComboType, effectiveTags []string) types.Candidate {
	entryCombo := comboOrAll(entry.Combo)
	tags := types.NormalizeTags(entry.Tags, types.MaxTags)

	var score float64
	if entry.UsageCount > 0 {
		score += float64(entry.UsageCount) * usageWeight
	}

	var reasons []string
	if category != "" && entryCombo.Matches(category) {
		score += categoryWeight
		reasons = append(reasons, fmt.Sprintf("Combo: %s", category))
	}

	matched := intersection(tags, effectiveTags)
	if len(matched) > 0 {
		score += tagWeight * float64(len(matched))
		reasons = append(reasons, fmt.Sprintf("Tags: %s", strings.Join(matched, ", ")))
	}

	reason := "Popular prompt"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, reasonSeparator)
	}

	return types.Candidate{
		ID:       entry.ID,
		Title:    entry.Title,
		Summary:  entry.Summary,
		Category: entryCombo,
		Tags:     tags,
		Content:  entry.Content,
		Score:    score,
		Reason:   reason,
		Source:   types.SourceStored,
	}
}

// intersection returns the members of tags that also appear in want, in the
// order they appear in tags.
func intersection(tags, want []string) []string {
	if len(tags) == 0 || len(want) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	var out []string
	for _, t := range tags {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func comboOrAll(c types.ComboType) types.ComboType {
	if c == "" {
		return types.ComboAll
	}
	return c
}
