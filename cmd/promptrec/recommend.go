// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/promptrec/internal/metrics"
	"github.com/pdiddy/promptrec/internal/recommend"
	"github.com/pdiddy/promptrec/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend prompts for a combo, tags, and purpose",
	Long: `Recommend ranks prompts from your library, the starter templates, and
(when a suggestion model is configured) external suggestions. Words longer
than three characters in --purpose count as extra tags.`,
	Example: `  promptrec recommend --category web --tag marketing --purpose "launch a pricing page"
  promptrec recommend --category app --limit 3 --json`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("category", "", "combo type: enterprise, web, app, custom, or all")
	recommendCmd.Flags().StringSlice("tag", nil, "interest tag (repeatable or comma-separated)")
	recommendCmd.Flags().String("purpose", "", "free-text description of what you are building")
	recommendCmd.Flags().Int("limit", 0, "maximum recommendations (0 = configured default)")
	recommendCmd.Flags().Bool("json", false, "output recommendations as JSON")
	recommendCmd.Flags().Bool("stats", false, "print engine counters after the results")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	categoryFlag, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	purpose, _ := cmd.Flags().GetString("purpose")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	showStats, _ := cmd.Flags().GetBool("stats")

	category, ok := types.ParseComboType(categoryFlag)
	if !ok {
		return fmt.Errorf("unknown category %q: use enterprise, web, app, custom, or all", categoryFlag)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rec := metrics.New()
	engine := newEngine(store, rec)

	results, err := engine.Recommend(cmd.Context(), recommend.Request{
		Category: category,
		Tags:     tags,
		Purpose:  purpose,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := writeJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		formatRecommendations(os.Stdout, results)
	}

	if showStats {
		return printStats(os.Stderr, rec)
	}
	return nil
}

func formatRecommendations(w io.Writer, results []types.Candidate) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-8s  %-36s  %s\n", "Rank", "Score", "Source", "Title", "Reason")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, c := range results {
		fmt.Fprintf(w, "%-4d  %6.2f  %-8s  %-36s  %s\n",
			i+1, c.Score, c.Source, truncate(c.Title, 36), c.Reason)
	}
	fmt.Fprintf(w, "\n%d recommendations\n", len(results))
}

func printStats(w io.Writer, rec *metrics.Recorder) error {
	samples, err := rec.Snapshot()
	if err != nil {
		return err
	}
	for _, s := range samples {
		fmt.Fprintf(w, "%-64s %g\n", s.Name, s.Value)
	}
	return nil
}
