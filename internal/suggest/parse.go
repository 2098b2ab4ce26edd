// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/promptrec/pkg/types"
)

// Suggestion limits and defaults.
const (
	MaxSuggestions   = 3
	SuggestionScore  = 1.25
	IDPrefix         = "external-"
	defaultReason    = "Model suggestion aligned with recent usage"
	fallbackTagCount = 3
)

// ErrMalformed is returned when the model reply is not a JSON array.
var ErrMalformed = errors.New("malformed suggestion reply")

// replySchema only requires an array. Items are validated one at a time.
const replySchema = `{"type": "array"}`

// itemSchema accepts an object with a non-blank string title. Optional fields
// of the wrong type are read as absent.
const itemSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "pattern": "\\S"}
  }
}`

var (
	compiledReply = jsonschema.MustCompileString("reply.json", replySchema)
	compiledItem  = jsonschema.MustCompileString("item.json", itemSchema)
)

// Parse converts a model reply into external candidates. A reply that is not
// a JSON array fails as a whole. Items that are not objects or lack a title
// are skipped; null or mistyped optional fields count as absent. At most
// MaxSuggestions candidates are returned.
func Parse(raw string, req types.SuggestionRequest) ([]types.Candidate, error) {
	var doc any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := compiledReply.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	items, _ := doc.([]any)

	category := req.Category
	if category == "" {
		category = types.ComboAll
	}

	out := make([]types.Candidate, 0, MaxSuggestions)
	for _, el := range items {
		if len(out) == MaxSuggestions {
			break
		}
		if compiledItem.Validate(el) != nil {
			continue
		}
		fields := el.(map[string]any)
		title := strings.TrimSpace(stringField(fields, "title"))

		tags := types.NormalizeTags(stringsField(fields, "tags"), types.MaxTags)
		if len(tags) == 0 {
			tags = types.NormalizeTags(req.EffectiveTags, fallbackTagCount)
		}

		reasonText := stringField(fields, "reason")
		content := firstNonEmpty(stringField(fields, "content"), stringField(fields, "prompt"), title)

		out = append(out, types.Candidate{
			ID:       IDPrefix + uuid.NewString(),
			Title:    title,
			Summary:  strings.TrimSpace(reasonText),
			Category: category,
			Tags:     tags,
			Content:  content,
			Score:    SuggestionScore,
			Reason:   firstNonEmpty(reasonText, defaultReason),
			Source:   types.SourceExternal,
		})
	}
	return out, nil
}

// stringField returns fields[key] when it is a string, otherwise "".
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// stringsField returns the string elements of fields[key] when it is an
// array. Other elements are skipped.
func stringsField(fields map[string]any, key string) []string {
	arr, _ := fields[key].([]any)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// stripCodeFence removes a surrounding Markdown code fence such as
// "```json ... ```". Text outside the fence is not tolerated.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(s[3:], "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
