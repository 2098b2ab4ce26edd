// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Recognized keys: openai-api-key, suggester-model, suggester-base-url.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/promptrec/pkg/types"
)

// Recognized secret names.
const (
	OpenAIAPIKey     = "openai-api-key"
	SuggesterModel   = "suggester-model"
	SuggesterBaseURL = "suggester-base-url"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets/"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Names returns the loaded secret names, sorted. Values are never exposed.
func Names(secrets map[string]string) []string {
	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplySuggester fills empty suggester settings from secrets. Configured
// values always win.
func ApplySuggester(cfg *types.SuggesterConfig, secrets map[string]string) {
	cfg.APIKey = orSecret(cfg.APIKey, secrets, OpenAIAPIKey)
	cfg.Model = orSecret(cfg.Model, secrets, SuggesterModel)
	cfg.BaseURL = orSecret(cfg.BaseURL, secrets, SuggesterBaseURL)
}

func orSecret(current string, secrets map[string]string, key string) string {
	if current != "" {
		return current
	}
	return secrets[key]
}
