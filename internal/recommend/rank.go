// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"sort"

	"github.com/pdiddy/promptrec/pkg/types"
)

// positionalBonus is added per remaining slot so earlier entries keep a
// slight edge over later ones with the same score.
const positionalBonus = 0.01

// rank merges candidates in source order, drops empty and duplicate IDs
// (first occurrence wins), sorts by score descending with ties kept in merge
// order, and applies the positional bonus for limit. The result is not
// truncated.
func rank(pool []types.Candidate, limit int) []types.Candidate {
	seen := make(map[string]struct{}, len(pool))
	ranked := make([]types.Candidate, 0, len(pool))
	for _, c := range pool {
		if c.ID == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		if c.Score < 0 {
			c.Score = 0
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Score += float64(max(0, limit-i)) * positionalBonus
	}
	return ranked
}

// head returns a copy of the first limit candidates. Tag slices are copied
// so callers cannot mutate cached lists.
func head(ranked []types.Candidate, limit int) []types.Candidate {
	n := min(limit, len(ranked))
	out := make([]types.Candidate, n)
	for i := 0; i < n; i++ {
		c := ranked[i]
		c.Tags = append([]string{}, c.Tags...)
		out[i] = c
	}
	return out
}
