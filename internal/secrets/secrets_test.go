// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/promptrec/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "  sk-abc123  \n")
				writeFile(t, dir, SuggesterModel, "gpt-4o-mini")
				writeFile(t, dir, SuggesterBaseURL, "https://gateway.example.com/v1\n")
				return dir
			},
			want: map[string]string{
				OpenAIAPIKey:     "sk-abc123",
				SuggesterModel:   "gpt-4o-mini",
				SuggesterBaseURL: "https://gateway.example.com/v1",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				OpenAIAPIKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, SuggesterModel, "gpt-4o-mini")
				return dir
			},
			want: map[string]string{
				SuggesterModel: "gpt-4o-mini",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				OpenAIAPIKey: "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, zerolog.Nop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read mode 0000 files")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestNames(t *testing.T) {
	got := Names(map[string]string{SuggesterModel: "m", OpenAIAPIKey: "k"})
	assert.Equal(t, []string{OpenAIAPIKey, SuggesterModel}, got)
	assert.Empty(t, Names(nil))
}

func TestApplySuggester(t *testing.T) {
	secrets := map[string]string{
		OpenAIAPIKey:     "sk-secret",
		SuggesterModel:   "gpt-from-secret",
		SuggesterBaseURL: "https://gateway.example.com/v1",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		var cfg types.SuggesterConfig
		ApplySuggester(&cfg, secrets)
		assert.Equal(t, "sk-secret", cfg.APIKey)
		assert.Equal(t, "gpt-from-secret", cfg.Model)
		assert.Equal(t, "https://gateway.example.com/v1", cfg.BaseURL)
		assert.True(t, cfg.Enabled())
	})

	t.Run("configured values win", func(t *testing.T) {
		cfg := types.SuggesterConfig{AIConfig: types.AIConfig{Model: "gpt-config", APIKey: "sk-config"}}
		ApplySuggester(&cfg, secrets)
		assert.Equal(t, "sk-config", cfg.APIKey)
		assert.Equal(t, "gpt-config", cfg.Model)
	})

	t.Run("no secrets leaves suggester disabled", func(t *testing.T) {
		var cfg types.SuggesterConfig
		ApplySuggester(&cfg, map[string]string{})
		assert.False(t, cfg.Enabled())
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
