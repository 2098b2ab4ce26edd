// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PromptEntry is a reusable prompt saved in a user's prompt library.
type PromptEntry struct {
	ID      string    `json:"id" yaml:"id"`
	UserID  string    `json:"user_id" yaml:"user_id"`
	Title   string    `json:"title" yaml:"title"`
	Summary string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Content string    `json:"content" yaml:"content"`
	Combo   ComboType `json:"combo_type" yaml:"combo_type"`
	Tags    []string  `json:"tags" yaml:"tags"`

	// Metadata holds free-form attributes such as a deploy hook override.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// IsShared makes the entry visible to the whole team.
	IsShared bool `json:"is_shared" yaml:"is_shared"`

	// UsageCount is incremented each time the prompt is applied.
	UsageCount int `json:"usage_count" yaml:"usage_count"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// PromptTemplate is a built-in or file-configured starter prompt used when
// the library has too few entries for a request.
type PromptTemplate struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Content     string    `json:"content" yaml:"content"`
	Tags        []string  `json:"tags" yaml:"tags"`
	Combo       ComboType `json:"combo_type" yaml:"combo_type"`
}

// AIProvider names the model provider a prompt was run against.
type AIProvider string

const (
	ProviderOpenAI    AIProvider = "openai"
	ProviderAnthropic AIProvider = "anthropic"
	ProviderCowiFree  AIProvider = "cowi_free"
	ProviderCustom    AIProvider = "custom"
)

// UsageLog records one application of a prompt.
type UsageLog struct {
	ID           string         `json:"id" yaml:"id"`
	UserID       string         `json:"user_id" yaml:"user_id"`
	PromptID     string         `json:"prompt_id,omitempty" yaml:"prompt_id,omitempty"`
	ProjectID    string         `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Combo        ComboType      `json:"combo_type,omitempty" yaml:"combo_type,omitempty"`
	Provider     AIProvider     `json:"provider,omitempty" yaml:"provider,omitempty"`
	TokensInput  int            `json:"tokens_input,omitempty" yaml:"tokens_input,omitempty"`
	TokensOutput int            `json:"tokens_output,omitempty" yaml:"tokens_output,omitempty"`
	CostUSD      float64        `json:"cost_usd,omitempty" yaml:"cost_usd,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
}
