// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/pdiddy/promptrec/internal/library"
	"github.com/pdiddy/promptrec/internal/logging"
	"github.com/pdiddy/promptrec/internal/metrics"
	"github.com/pdiddy/promptrec/internal/recommend"
	"github.com/pdiddy/promptrec/internal/suggest"
	"github.com/pdiddy/promptrec/internal/templates"
)

// openStore opens the prompt library configured in cfg.
func openStore() (*library.Store, error) {
	return library.NewStore(cfg.Library, cfg.Recommend.PoolSize, logging.Component(logger, "library"))
}

// newEngine wires the recommendation engine over store. Its cache lasts
// for this process only.
func newEngine(store *library.Store, rec *metrics.Recorder) *recommend.Engine {
	tpls := templates.NewSource(cfg.Library.TemplatesFile, logging.Component(logger, "templates"))

	adapter := suggest.New(cfg.Suggester,
		suggest.WithMetrics(rec),
		suggest.WithLogger(logging.Component(logger, "suggest")),
	)

	return recommend.NewEngine(cfg.Recommend, store, tpls,
		recommend.WithSuggester(adapter),
		recommend.WithUser(recommend.StaticUser(cfg.User)),
		recommend.WithMetrics(rec),
		recommend.WithLogger(logging.Component(logger, "recommend")),
	)
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
