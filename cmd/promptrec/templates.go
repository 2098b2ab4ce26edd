// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/promptrec/internal/logging"
	"github.com/pdiddy/promptrec/internal/templates"
	"github.com/pdiddy/promptrec/pkg/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the fallback prompt templates",
	Long: `Templates lists the curated templates used when the library has too few
stored prompts. The built-in set is replaced by library.templates_file
when that file is configured.`,
	RunE: runTemplates,
}

func runTemplates(cmd *cobra.Command, args []string) error {
	tag, _ := cmd.Flags().GetString("tag")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	src := templates.NewSource(cfg.Library.TemplatesFile, logging.Component(logger, "templates"))
	tpls := src.Filter(tag)

	if jsonOutput {
		return writeJSON(os.Stdout, tpls)
	}
	formatTemplates(os.Stdout, tpls)
	return nil
}

func formatTemplates(w io.Writer, tpls []types.PromptTemplate) {
	if len(tpls) == 0 {
		fmt.Fprintln(w, "No templates match.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-10s  %-36s  %s\n", "ID", "Combo", "Title", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, t := range tpls {
		fmt.Fprintf(w, "%-24s  %-10s  %-36s  %s\n",
			t.ID, t.Combo, truncate(t.Title, 36), strings.Join(t.Tags, ", "))
	}
}

func init() {
	templatesCmd.Flags().String("tag", "", "only templates with this tag")
	templatesCmd.Flags().Bool("json", false, "output templates as JSON")

	rootCmd.AddCommand(templatesCmd)
}
