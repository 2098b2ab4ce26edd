// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/promptrec/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	User       string              `json:"user" yaml:"user"`
	ExportedAt time.Time           `json:"exported_at" yaml:"exported_at"`
	Prompts    []types.PromptEntry `json:"prompts" yaml:"prompts"`
}

const exportLimit = 100000

// ExportYAML writes every prompt visible to userID to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, userID string, w io.Writer) error {
	doc, err := s.export(ctx, userID)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every prompt visible to userID to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, userID string, w io.Writer) error {
	doc, err := s.export(ctx, userID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (s *Store) export(ctx context.Context, userID string) (Export, error) {
	entries, err := s.List(ctx, userID, ListOptions{Limit: exportLimit})
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []types.PromptEntry{}
	}
	return Export{User: userID, ExportedAt: s.now(), Prompts: entries}, nil
}
