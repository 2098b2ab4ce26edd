// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package templates supplies the fallback prompt templates offered when a
// user's library cannot fill a recommendation request. Templates come from a
// built-in set or, when configured, from a YAML file.
package templates

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/promptrec/pkg/types"
)

// builtin mirrors the starter prompts shipped with the console.
var builtin = []types.PromptTemplate{
	{
		ID:          "saas-dashboard",
		Title:       "SaaS dashboard",
		Description: "Multi-tenant billing dashboard with Supabase Auth and row-level security",
		Content:     "Build a SaaS analytics dashboard with onboarding wizard, roles (owner, analyst), usage metrics, and deployment notes for Vercel + Supabase.",
		Tags:        []string{"web", "enterprise", "starter"},
		Combo:       types.ComboWeb,
	},
	{
		ID:          "portfolio",
		Title:       "Portfolio site",
		Description: "Personal site with blog, projects, and contact form",
		Content:     "Create a developer portfolio that highlights case studies, integrates Supabase for blog content, and includes deployment guidance for custom domains.",
		Tags:        []string{"web", "custom"},
		Combo:       types.ComboWeb,
	},
	{
		ID:          "mobile-shell",
		Title:       "Mobile companion app",
		Description: "React Native companion app that mirrors project boards",
		Content:     "Generate a mobile shell using Expo Router that consumes Supabase APIs, includes offline caching, and explains how to publish via EAS.",
		Tags:        []string{"app"},
		Combo:       types.ComboApp,
	},
}

// Builtin returns a copy of the built-in templates.
func Builtin() []types.PromptTemplate {
	return clone(builtin)
}

// file is the on-disk layout of a templates file.
type file struct {
	Templates []types.PromptTemplate `yaml:"templates"`
}

// LoadFile reads templates from a YAML file. Entries without an id, title, or
// content, or with an unknown combo type, are rejected with an error naming
// the entry. Tags are normalized and a missing combo type means "all".
func LoadFile(path string) ([]types.PromptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Templates))
	out := make([]types.PromptTemplate, 0, len(f.Templates))
	for i, tpl := range f.Templates {
		switch {
		case tpl.ID == "":
			return nil, fmt.Errorf("template %d: missing id", i)
		case tpl.Title == "":
			return nil, fmt.Errorf("template %s: missing title", tpl.ID)
		case tpl.Content == "":
			return nil, fmt.Errorf("template %s: missing content", tpl.ID)
		case seen[tpl.ID]:
			return nil, fmt.Errorf("template %s: duplicate id", tpl.ID)
		}
		if tpl.Combo == "" {
			tpl.Combo = types.ComboAll
		}
		if !tpl.Combo.Valid() {
			return nil, fmt.Errorf("template %s: unknown combo type %q", tpl.ID, tpl.Combo)
		}
		tpl.Tags = types.NormalizeTags(tpl.Tags, types.MaxTags)
		seen[tpl.ID] = true
		out = append(out, tpl)
	}
	return out, nil
}

// Source serves fallback templates to the recommendation engine.
type Source struct {
	templates []types.PromptTemplate
}

// NewSource returns a Source backed by path, or by the built-ins when path is
// empty, unreadable, invalid, or empty. Load problems are logged, never
// returned: fallback templates must always be available.
func NewSource(path string, logger zerolog.Logger) *Source {
	if path == "" {
		return &Source{templates: Builtin()}
	}

	loaded, err := LoadFile(path)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("path", path).Msg("using built-in templates")
		return &Source{templates: Builtin()}
	case len(loaded) == 0:
		logger.Warn().Str("path", path).Msg("templates file is empty, using built-in templates")
		return &Source{templates: Builtin()}
	}

	logger.Debug().Str("path", path).Int("count", len(loaded)).Msg("loaded templates")
	return &Source{templates: loaded}
}

// Templates returns a copy of all templates.
func (s *Source) Templates() []types.PromptTemplate {
	return clone(s.templates)
}

// Filter returns templates carrying tag, or all templates when tag is empty.
func (s *Source) Filter(tag string) []types.PromptTemplate {
	if tag == "" {
		return s.Templates()
	}
	tags := types.NormalizeTags([]string{tag}, 1)
	if len(tags) == 0 {
		return s.Templates()
	}
	var out []types.PromptTemplate
	for _, tpl := range s.templates {
		for _, t := range tpl.Tags {
			if t == tags[0] {
				out = append(out, cloneOne(tpl))
				break
			}
		}
	}
	return out
}

func clone(in []types.PromptTemplate) []types.PromptTemplate {
	out := make([]types.PromptTemplate, len(in))
	for i, tpl := range in {
		out[i] = cloneOne(tpl)
	}
	return out
}

func cloneOne(tpl types.PromptTemplate) types.PromptTemplate {
	tpl.Tags = append([]string(nil), tpl.Tags...)
	return tpl
}
