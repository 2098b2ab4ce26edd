// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/pdiddy/promptrec/pkg/types"
)

var suggestionPromptTmpl = template.Must(template.New("suggestion").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`You are a prompt recommendation agent for an internal deployment tool.
Combo type: {{if .Category}}{{.Category}}{{else}}unknown{{end}}.
{{- if .Tags}}
Tags: {{join .Tags ", "}}.
{{- end}}
{{- if .Purpose}}
Purpose: {{.Purpose}}.
{{- end}}

Suggest the three best prompts for this context. Respond with a JSON array only. Each element is an object with:
- title: a short prompt title
- reason: one sentence on why it fits
- content: the full prompt text
- tags: lowercase topic labels

Do not include any text outside the JSON array.
`))

func renderPrompt(req types.SuggestionRequest) (string, error) {
	var buf bytes.Buffer
	if err := suggestionPromptTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
