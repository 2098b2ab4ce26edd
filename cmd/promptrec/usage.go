// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/promptrec/internal/library"
	"github.com/pdiddy/promptrec/pkg/types"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Record and inspect prompt usage",
	Long: `Usage records each time a prompt is sent to a model. Recording usage of
a prompt you own bumps its usage count, which raises its recommendation
score.`,
}

// --- record subcommand ---

var usageRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one prompt usage event",
	RunE:  runUsageRecord,
}

func runUsageRecord(cmd *cobra.Command, args []string) error {
	promptID, _ := cmd.Flags().GetString("prompt")
	projectID, _ := cmd.Flags().GetString("project")
	categoryFlag, _ := cmd.Flags().GetString("category")
	provider, _ := cmd.Flags().GetString("provider")
	tokensIn, _ := cmd.Flags().GetInt("tokens-in")
	tokensOut, _ := cmd.Flags().GetInt("tokens-out")
	cost, _ := cmd.Flags().GetFloat64("cost")

	category, ok := types.ParseComboType(categoryFlag)
	if !ok {
		return fmt.Errorf("unknown category %q", categoryFlag)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	log, err := store.LogUsage(cmd.Context(), cfg.User, library.UsageInput{
		PromptID:     promptID,
		ProjectID:    projectID,
		Combo:        category,
		Provider:     types.AIProvider(strings.ToLower(provider)),
		TokensInput:  tokensIn,
		TokensOutput: tokensOut,
		CostUSD:      cost,
	})
	if err != nil {
		return err
	}
	fmt.Printf("recorded %s\n", log.ID)
	return nil
}

// --- list subcommand ---

var usageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your most recent usage events",
	RunE:  runUsageList,
}

func runUsageList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	logs, err := store.ListUsage(cmd.Context(), cfg.User, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		if logs == nil {
			logs = []types.UsageLog{}
		}
		return writeJSON(os.Stdout, logs)
	}
	formatUsage(os.Stdout, logs)
	return nil
}

func formatUsage(w io.Writer, logs []types.UsageLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No usage recorded.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-36s  %-10s  %-10s  %8s  %8s  %9s\n",
		"When", "Prompt", "Combo", "Provider", "In", "Out", "Cost")
	fmt.Fprintln(w, strings.Repeat("-", 112))
	var total float64
	for _, l := range logs {
		prompt := l.PromptID
		if prompt == "" {
			prompt = "-"
		}
		fmt.Fprintf(w, "%-19s  %-36s  %-10s  %-10s  %8d  %8d  %9.4f\n",
			l.CreatedAt.Format("2006-01-02 15:04:05"), prompt, l.Combo, l.Provider,
			l.TokensInput, l.TokensOutput, l.CostUSD)
		total += l.CostUSD
	}
	fmt.Fprintf(w, "\n%d events, $%.4f total\n", len(logs), total)
}

func init() {
	usageRecordCmd.Flags().String("prompt", "", "prompt ID (optional)")
	usageRecordCmd.Flags().String("project", "", "project ID (optional)")
	usageRecordCmd.Flags().String("category", "", "combo type: enterprise, web, app, or custom")
	usageRecordCmd.Flags().String("provider", "", "provider: openai, anthropic, cowi_free, or custom")
	usageRecordCmd.Flags().Int("tokens-in", 0, "input tokens")
	usageRecordCmd.Flags().Int("tokens-out", 0, "output tokens")
	usageRecordCmd.Flags().Float64("cost", 0, "cost in USD")

	usageListCmd.Flags().Int("limit", library.DefaultUsageLimit, "maximum events")
	usageListCmd.Flags().Bool("json", false, "output events as JSON")

	usageCmd.AddCommand(usageRecordCmd)
	usageCmd.AddCommand(usageListCmd)

	rootCmd.AddCommand(usageCmd)
}
