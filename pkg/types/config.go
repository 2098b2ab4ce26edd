// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings for outbound model calls.
type HTTPConfig struct {
	// Timeout bounds a single request, including reading the response.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// UserAgent is sent with every request (e.g. "promptrec/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds settings for stages that call a generative AI API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini"). An empty model
	// disables the stage.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
}

// Enabled reports whether both a model and an API key are configured.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && c.APIKey != ""
}

// SuggesterConfig holds settings for the external suggestion model.
type SuggesterConfig struct {
	HTTPConfig `yaml:",inline"`
	AIConfig   `yaml:",inline"`

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit (default 5).
	BreakerFailures uint32 `json:"breaker_failures" yaml:"breaker_failures" validate:"gte=1"`

	// BreakerCooldown is how long the circuit stays open before a probe
	// request is let through (default 1m).
	BreakerCooldown time.Duration `json:"breaker_cooldown" yaml:"breaker_cooldown" validate:"gte=0"`
}

// RecommendConfig holds settings for the recommendation engine.
type RecommendConfig struct {
	// DefaultLimit is used when a request does not set a limit (default 8).
	DefaultLimit int `json:"default_limit" yaml:"default_limit" validate:"gte=1,ltefield=MaxLimit"`

	// MaxLimit is the largest limit a request may ask for (default 50).
	MaxLimit int `json:"max_limit" yaml:"max_limit" validate:"gte=1,lte=500"`

	// PoolSize caps how many stored entries are scored per request (default 100).
	PoolSize int `json:"pool_size" yaml:"pool_size" validate:"gte=1,lte=1000"`

	// CacheTTL is how long a ranked list is reused (default 15m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" validate:"gt=0"`
}

// LibraryConfig holds settings for the prompt library store.
type LibraryConfig struct {
	// DBPath is the SQLite database file (default "data/promptrec.db").
	DBPath string `json:"db_path" yaml:"db_path" validate:"required"`

	// TemplatesFile optionally replaces the built-in fallback templates.
	TemplatesFile string `json:"templates_file,omitempty" yaml:"templates_file,omitempty"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `json:"format" yaml:"format" validate:"oneof=console json"`
}

// Config groups all promptrec settings.
type Config struct {
	// User is the id of the acting user; prompts are owned by and visible to
	// this user.
	User string `json:"user" yaml:"user" validate:"required"`

	Library   LibraryConfig   `json:"library" yaml:"library"`
	Recommend RecommendConfig `json:"recommend" yaml:"recommend"`
	Suggester SuggesterConfig `json:"suggester" yaml:"suggester"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		User: "local",
		Library: LibraryConfig{
			DBPath: "data/promptrec.db",
		},
		Recommend: RecommendConfig{
			DefaultLimit: 8,
			MaxLimit:     50,
			PoolSize:     100,
			CacheTTL:     15 * time.Minute,
		},
		Suggester: SuggesterConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "promptrec/0.1",
			},
			BreakerFailures: 5,
			BreakerCooldown: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and reports every invalid field.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
