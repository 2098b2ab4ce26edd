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

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage the prompt library (add, list, show, update, delete)",
	Long: `Prompt manages the prompts saved in the local library. Prompts you own
can be edited and deleted; prompts shared by teammates are visible but
read-only.`,
}

// --- add subcommand ---

var promptAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new prompt",
	RunE:  runPromptAdd,
}

func runPromptAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	summary, _ := cmd.Flags().GetString("summary")
	categoryFlag, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	shared, _ := cmd.Flags().GetBool("shared")
	metaPairs, _ := cmd.Flags().GetStringToString("meta")

	content, err := contentFromFlags(cmd)
	if err != nil {
		return err
	}
	category, ok := types.ParseComboType(categoryFlag)
	if !ok {
		return fmt.Errorf("unknown category %q", categoryFlag)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Create(cmd.Context(), cfg.User, library.PromptInput{
		Title:    title,
		Summary:  summary,
		Content:  content,
		Combo:    category,
		Tags:     tags,
		Metadata: metadataFromPairs(metaPairs),
		IsShared: shared,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added %s  %s\n", entry.ID, entry.Title)
	return nil
}

// --- list subcommand ---

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts visible to you, most recently updated first",
	RunE:  runPromptList,
}

func runPromptList(cmd *cobra.Command, args []string) error {
	tag, _ := cmd.Flags().GetString("tag")
	query, _ := cmd.Flags().GetString("query")
	owned, _ := cmd.Flags().GetBool("owned")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), cfg.User, library.ListOptions{
		Tag:       tag,
		Query:     query,
		OwnedOnly: owned,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		if entries == nil {
			entries = []types.PromptEntry{}
		}
		return writeJSON(os.Stdout, entries)
	}
	formatPromptList(os.Stdout, entries)
	return nil
}

func formatPromptList(w io.Writer, entries []types.PromptEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No prompts found.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-10s  %-5s  %-32s  %s\n", "ID", "Combo", "Uses", "Title", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, e := range entries {
		title := truncate(e.Title, 32)
		if e.IsShared {
			title = truncate("* "+e.Title, 32)
		}
		fmt.Fprintf(w, "%-36s  %-10s  %5d  %-32s  %s\n",
			e.ID, e.Combo, e.UsageCount, title, strings.Join(e.Tags, ", "))
	}
	fmt.Fprintf(w, "\n%d prompts (* = shared)\n", len(entries))
}

// --- show subcommand ---

var promptShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one prompt in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptShow,
}

func runPromptShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), cfg.User, args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(os.Stdout, entry)
	}
	formatPrompt(os.Stdout, entry)
	return nil
}

func formatPrompt(w io.Writer, e types.PromptEntry) {
	fmt.Fprintf(w, "ID:       %s\n", e.ID)
	fmt.Fprintf(w, "Title:    %s\n", e.Title)
	if e.Summary != "" {
		fmt.Fprintf(w, "Summary:  %s\n", e.Summary)
	}
	fmt.Fprintf(w, "Combo:    %s\n", e.Combo)
	fmt.Fprintf(w, "Tags:     %s\n", strings.Join(e.Tags, ", "))
	fmt.Fprintf(w, "Owner:    %s (shared: %t)\n", e.UserID, e.IsShared)
	fmt.Fprintf(w, "Used:     %d times\n", e.UsageCount)
	fmt.Fprintf(w, "Updated:  %s\n", e.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "\n%s\n", e.Content)
}

// --- update subcommand ---

var promptUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a prompt you own",
	Long: `Update changes only the fields whose flags are given. Pass --tag ""
to clear all tags.`,
	Args: cobra.ExactArgs(1),
	RunE: runPromptUpdate,
}

func runPromptUpdate(cmd *cobra.Command, args []string) error {
	var patch library.PromptPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch.Title = &v
	}
	if flags.Changed("summary") {
		v, _ := flags.GetString("summary")
		patch.Summary = &v
	}
	if flags.Changed("content") || flags.Changed("content-file") {
		v, err := contentFromFlags(cmd)
		if err != nil {
			return err
		}
		patch.Content = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c, ok := types.ParseComboType(v)
		if !ok || c == "" {
			return fmt.Errorf("unknown category %q", v)
		}
		patch.Combo = &c
	}
	if flags.Changed("tag") {
		v, _ := flags.GetStringSlice("tag")
		patch.Tags = append([]string{}, v...)
	}
	if flags.Changed("meta") {
		v, _ := flags.GetStringToString("meta")
		patch.Metadata = metadataFromPairs(v)
	}
	if flags.Changed("shared") {
		v, _ := flags.GetBool("shared")
		patch.IsShared = &v
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Update(cmd.Context(), cfg.User, args[0], patch)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s  %s\n", entry.ID, entry.Title)
	return nil
}

// --- delete subcommand ---

var promptDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prompt you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), cfg.User, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

// --- shared helpers ---

// contentFromFlags returns --content, or the contents of --content-file
// ("-" reads stdin).
func contentFromFlags(cmd *cobra.Command) (string, error) {
	content, _ := cmd.Flags().GetString("content")
	path, _ := cmd.Flags().GetString("content-file")
	if path == "" {
		return content, nil
	}
	if content != "" {
		return "", fmt.Errorf("use either --content or --content-file, not both")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading prompt content: %w", err)
	}
	return string(data), nil
}

func metadataFromPairs(pairs map[string]string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]any, len(pairs))
	for k, v := range pairs {
		m[k] = v
	}
	return m
}

func addPromptFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "prompt title")
	cmd.Flags().String("summary", "", "one-line summary")
	cmd.Flags().String("content", "", "prompt text")
	cmd.Flags().String("content-file", "", "read prompt text from a file (- for stdin)")
	cmd.Flags().String("category", "", "combo type: enterprise, web, app, custom, or all")
	cmd.Flags().StringSlice("tag", nil, "tag (repeatable or comma-separated)")
	cmd.Flags().StringToString("meta", nil, "metadata key=value pairs")
	cmd.Flags().Bool("shared", false, "share the prompt with the team")
}

func init() {
	addPromptFieldFlags(promptAddCmd)
	addPromptFieldFlags(promptUpdateCmd)

	promptListCmd.Flags().String("tag", "", "only prompts with this tag")
	promptListCmd.Flags().String("query", "", "case-insensitive title filter")
	promptListCmd.Flags().Bool("owned", false, "hide prompts shared by others")
	promptListCmd.Flags().Int("limit", 0, "maximum prompts (0 = 100)")
	promptListCmd.Flags().Bool("json", false, "output prompts as JSON")

	promptShowCmd.Flags().Bool("json", false, "output the prompt as JSON")

	promptCmd.AddCommand(promptAddCmd)
	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptShowCmd)
	promptCmd.AddCommand(promptUpdateCmd)
	promptCmd.AddCommand(promptDeleteCmd)

	rootCmd.AddCommand(promptCmd)
}
