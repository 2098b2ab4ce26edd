// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"strings"

	"github.com/pdiddy/promptrec/pkg/types"
)

// fallbackCandidates scores every template. Each starts at 1, gains one point
// per overlapping tag, and one more when the requested category matches.
func fallbackCandidates(templates []types.PromptTemplate, category types.ComboType, effectiveTags []string) []types.Candidate {
	out := make([]types.Candidate, 0, len(templates))
	for _, tpl := range templates {
		combo := comboOrAll(tpl.Combo)
		tags := types.NormalizeTags(tpl.Tags, 0)
		matched := intersection(tags, effectiveTags)

		score := 1.0 + float64(len(matched))
		if category != "" && combo.Matches(category) {
			score++
		}

		reason := "Fallback template"
		if len(matched) > 0 {
			reason = fmt.Sprintf("Fallback tag match (%s)", strings.Join(matched, ", "))
		}

		out = append(out, types.Candidate{
			ID:       tpl.ID,
			Title:    tpl.Title,
			Summary:  tpl.Description,
			Category: combo,
			Tags:     tags,
			Content:  tpl.Content,
			Score:    score,
			Reason:   reason,
			Source:   types.SourceFallback,
		})
	}
	return out
}
