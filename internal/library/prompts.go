// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/pdiddy/promptrec/pkg/types"
)

// ErrInvalidPrompt wraps validation failures for prompt and usage input.
var ErrInvalidPrompt = errors.New("invalid prompt")

var inputValidator = validator.New()

// PromptInput holds the fields for a new prompt.
type PromptInput struct {
	Title    string          `validate:"required,max=200"`
	Summary  string          `validate:"max=2000"`
	Content  string          `validate:"required"`
	Combo    types.ComboType `validate:"omitempty,oneof=enterprise web app custom all"`
	Tags     []string
	Metadata map[string]any
	IsShared bool
}

// PromptPatch holds a partial update. Nil fields are left unchanged; a
// non-nil empty Tags clears the tags.
type PromptPatch struct {
	Title    *string
	Summary  *string
	Content  *string
	Combo    *types.ComboType
	Tags     []string
	Metadata map[string]any
	IsShared *bool
}

// ListOptions filters List.
type ListOptions struct {
	// Tag keeps prompts carrying this tag.
	Tag string

	// Query is a case-insensitive substring of the title.
	Query string

	// OwnedOnly hides prompts shared by other users.
	OwnedOnly bool

	// Limit defaults to 100.
	Limit int
}

const entryColumns = `id, user_id, title, summary, content, combo_type, tags, metadata,
	is_shared, usage_count, created_at, updated_at`

const visibleToUser = `(user_id = ? OR is_shared = 1)`

// Create stores a new prompt owned by userID.
func (s *Store) Create(ctx context.Context, userID string, in PromptInput) (types.PromptEntry, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return types.PromptEntry{}, err
	}
	if in.Combo == "" {
		in.Combo = types.ComboAll
	}

	now := s.now()
	entry := types.PromptEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     in.Title,
		Summary:   strings.TrimSpace(in.Summary),
		Content:   in.Content,
		Combo:     in.Combo,
		Tags:      types.NormalizeTags(in.Tags, types.MaxTags),
		Metadata:  in.Metadata,
		IsShared:  in.IsShared,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tagsJSON, metaJSON, err := encodeColumns(entry.Tags, entry.Metadata)
	if err != nil {
		return types.PromptEntry{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO prompt_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		entry.ID, entry.UserID, entry.Title, entry.Summary, entry.Content,
		string(entry.Combo), tagsJSON, metaJSON, entry.IsShared,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return types.PromptEntry{}, fmt.Errorf("inserting prompt: %w", err)
	}
	return entry, nil
}

// Get returns a prompt visible to userID.
func (s *Store) Get(ctx context.Context, userID, id string) (types.PromptEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM prompt_entries WHERE id = ? AND `+visibleToUser,
		id, userID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PromptEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.PromptEntry{}, fmt.Errorf("fetching prompt %s: %w", id, err)
	}
	return entry, nil
}

// Update applies patch to a prompt owned by userID and returns the result.
func (s *Store) Update(ctx context.Context, userID, id string, patch PromptPatch) (types.PromptEntry, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return types.PromptEntry{}, fmt.Errorf("%w: title must not be empty", ErrInvalidPrompt)
		}
		set("title", title)
	}
	if patch.Summary != nil {
		set("summary", strings.TrimSpace(*patch.Summary))
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return types.PromptEntry{}, fmt.Errorf("%w: content must not be empty", ErrInvalidPrompt)
		}
		set("content", content)
	}
	if patch.Combo != nil {
		if !patch.Combo.Valid() {
			return types.PromptEntry{}, fmt.Errorf("%w: unknown combo type %q", ErrInvalidPrompt, *patch.Combo)
		}
		set("combo_type", string(*patch.Combo))
	}
	if patch.Tags != nil {
		tagsJSON, _, err := encodeColumns(types.NormalizeTags(patch.Tags, types.MaxTags), nil)
		if err != nil {
			return types.PromptEntry{}, err
		}
		set("tags", tagsJSON)
	}
	if patch.Metadata != nil {
		_, metaJSON, err := encodeColumns(nil, patch.Metadata)
		if err != nil {
			return types.PromptEntry{}, err
		}
		set("metadata", metaJSON)
	}
	if patch.IsShared != nil {
		set("is_shared", *patch.IsShared)
	}
	set("updated_at", formatTime(s.now()))

	args = append(args, id, userID)
	res, err := s.db.ExecContext(ctx,
		`UPDATE prompt_entries SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return types.PromptEntry{}, fmt.Errorf("updating prompt %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.PromptEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Get(ctx, userID, id)
}

// Delete removes a prompt owned by userID.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM prompt_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting prompt %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns prompts visible to userID, most recently updated first.
func (s *Store) List(ctx context.Context, userID string, opts ListOptions) ([]types.PromptEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPoolSize
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + entryColumns + ` FROM prompt_entries WHERE `)
	if opts.OwnedOnly {
		qb.WriteString(`user_id = ?`)
	} else {
		qb.WriteString(visibleToUser)
	}
	args = append(args, userID)

	if q := strings.TrimSpace(opts.Query); q != "" {
		qb.WriteString(` AND title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q)+"%")
	}
	if tags := types.NormalizeTags([]string{opts.Tag}, 1); len(tags) == 1 {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(prompt_entries.tags) WHERE value = ?)`)
		args = append(args, tags[0])
	}

	qb.WriteString(` ORDER BY updated_at DESC, rowid DESC LIMIT ?`)
	args = append(args, limit)

	return s.queryEntries(ctx, qb.String(), args...)
}

// Candidates returns up to the pool size of prompts visible to userID, most
// used first, restricted to category (or the wildcard) when one is given.
// Failures are logged and yield an empty slice.
func (s *Store) Candidates(ctx context.Context, userID string, category types.ComboType) []types.PromptEntry {
	query := `SELECT ` + entryColumns + ` FROM prompt_entries WHERE ` + visibleToUser
	args := []any{userID}
	if category != "" {
		query += ` AND combo_type IN (?, ?)`
		args = append(args, string(category), string(types.ComboAll))
	}
	query += ` ORDER BY usage_count DESC, rowid ASC LIMIT ?`
	args = append(args, s.poolSize)

	entries, err := s.queryEntries(ctx, query, args...)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("fetching stored candidates")
		return nil
	}
	return entries
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]types.PromptEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying prompts: %w", err)
	}
	defer rows.Close()

	var entries []types.PromptEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prompt: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (types.PromptEntry, error) {
	var (
		e         types.PromptEntry
		combo     string
		summary   sql.NullString
		tagsJSON  sql.NullString
		metaJSON  sql.NullString
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(
		&e.ID, &e.UserID, &e.Title, &summary, &e.Content, &combo, &tagsJSON, &metaJSON,
		&e.IsShared, &e.UsageCount, &createdAt, &updatedAt,
	); err != nil {
		return types.PromptEntry{}, err
	}

	e.Summary = summary.String
	e.Combo = types.ComboType(combo)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	e.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &e.Tags); err != nil {
			return types.PromptEntry{}, fmt.Errorf("decoding tags of %s: %w", e.ID, err)
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}
	}
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &e.Metadata); err != nil {
			return types.PromptEntry{}, fmt.Errorf("decoding metadata of %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func encodeColumns(tags []string, metadata map[string]any) (tagsJSON string, metaJSON sql.NullString, err error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("encoding tags: %w", err)
	}
	tagsJSON = string(b)

	if metadata != nil {
		m, err := json.Marshal(metadata)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("encoding metadata: %w", err)
		}
		metaJSON = sql.NullString{String: string(m), Valid: true}
	}
	return tagsJSON, metaJSON, nil
}

func validateInput(v any) error {
	err := inputValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPrompt, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s fails %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrInvalidPrompt, strings.Join(msgs, ", "))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
