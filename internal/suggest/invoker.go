// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/promptrec/pkg/types"
)

// Invoker sends a prompt to a generative model and returns its text reply.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// OpenAIInvoker calls an OpenAI-compatible chat completions endpoint.
type OpenAIInvoker struct {
	client openai.Client
	model  string
}

// NewOpenAIInvoker builds an invoker from cfg. The client never retries; a
// failed call simply yields no suggestions.
func NewOpenAIInvoker(cfg types.SuggesterConfig) *OpenAIInvoker {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, option.WithHeader("User-Agent", cfg.UserAgent))
	}

	return &OpenAIInvoker{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Invoke sends prompt as a single user message.
func (o *OpenAIInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// StatusError reports a non-2xx reply from the model endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("suggestion model error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("suggestion model error (status %d)", e.StatusCode)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return fmt.Errorf("calling suggestion model: %w", err)
}
