// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/promptrec/pkg/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuiltin(t *testing.T) {
	got := Builtin()
	require.Len(t, got, 3)

	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"saas-dashboard", "portfolio", "mobile-shell"}, ids)
	assert.Equal(t, types.ComboApp, got[2].Combo)
	assert.Equal(t, []string{"app"}, got[2].Tags)

	// Mutating the copy must not leak into the package state.
	got[0].Tags[0] = "mutated"
	assert.Equal(t, "web", Builtin()[0].Tags[0])
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
templates:
  - id: api-starter
    title: API starter
    description: REST API with auth
    content: Build a REST API.
    tags: [" API ", "api", "Backend"]
    combo_type: enterprise
  - id: anything
    title: Anything
    content: Build anything.
`)

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"api", "backend"}, got[0].Tags)
	assert.Equal(t, types.ComboEnterprise, got[0].Combo)
	assert.Equal(t, types.ComboAll, got[1].Combo, "missing combo defaults to the wildcard")
	assert.Empty(t, got[1].Tags)
	assert.NotNil(t, got[1].Tags)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing id", "templates:\n  - title: x\n    content: y\n", "missing id"},
		{"missing title", "templates:\n  - id: a\n    content: y\n", "missing title"},
		{"missing content", "templates:\n  - id: a\n    title: x\n", "missing content"},
		{"duplicate", "templates:\n  - {id: a, title: x, content: y}\n  - {id: a, title: x, content: y}\n", "duplicate id"},
		{"bad combo", "templates:\n  - {id: a, title: x, content: y, combo_type: desktop}\n", "unknown combo type"},
		{"not yaml", "templates: [\n", "parsing templates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewSource_FallsBackToBuiltin(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"empty path", func(t *testing.T) string { return "" }},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }},
		{"invalid file", func(t *testing.T) string { return writeFile(t, "templates:\n  - title: x\n") }},
		{"empty list", func(t *testing.T) string { return writeFile(t, "templates: []\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSource(tt.path(t), zerolog.Nop())
			assert.Equal(t, Builtin(), s.Templates())
		})
	}
}

func TestNewSource_UsesFile(t *testing.T) {
	path := writeFile(t, "templates:\n  - {id: only, title: Only, content: c, tags: [x]}\n")
	s := NewSource(path, zerolog.Nop())

	got := s.Templates()
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].ID)
}

func TestSource_Filter(t *testing.T) {
	s := NewSource("", zerolog.Nop())

	web := s.Filter("WEB")
	require.Len(t, web, 2)
	assert.Equal(t, "saas-dashboard", web[0].ID)
	assert.Equal(t, "portfolio", web[1].ID)

	assert.Len(t, s.Filter(""), 3)
	assert.Empty(t, s.Filter("desktop"))
}
