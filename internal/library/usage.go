// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/promptrec/pkg/types"
)

// Usage log listing bounds.
const (
	DefaultUsageLimit = 20
	MaxUsageLimit     = 100
)

// UsageInput describes one application of a prompt.
type UsageInput struct {
	PromptID     string
	ProjectID    string
	Combo        types.ComboType  `validate:"omitempty,oneof=enterprise web app custom"`
	Provider     types.AIProvider `validate:"omitempty,oneof=openai anthropic cowi_free custom"`
	TokensInput  int              `validate:"gte=0"`
	TokensOutput int              `validate:"gte=0"`
	CostUSD      float64          `validate:"gte=0"`
	Metadata     map[string]any
}

// LogUsage records a usage event for userID. When PromptID names a prompt
// the user owns, its usage count is incremented; a failed increment is
// logged and does not fail the call.
func (s *Store) LogUsage(ctx context.Context, userID string, in UsageInput) (types.UsageLog, error) {
	if err := validateInput(in); err != nil {
		return types.UsageLog{}, err
	}

	log := types.UsageLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		PromptID:     in.PromptID,
		ProjectID:    in.ProjectID,
		Combo:        in.Combo,
		Provider:     in.Provider,
		TokensInput:  in.TokensInput,
		TokensOutput: in.TokensOutput,
		CostUSD:      in.CostUSD,
		Metadata:     in.Metadata,
		CreatedAt:    s.now(),
	}

	_, metaJSON, err := encodeColumns(nil, in.Metadata)
	if err != nil {
		return types.UsageLog{}, err
	}

	err = s.withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO prompt_usage_logs
				(id, user_id, prompt_id, project_id, combo_type, provider,
				 tokens_input, tokens_output, cost_usd, metadata, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			log.ID, log.UserID, nullString(log.PromptID), nullString(log.ProjectID),
			nullString(string(log.Combo)), nullString(string(log.Provider)),
			log.TokensInput, log.TokensOutput, log.CostUSD, metaJSON,
			formatTime(log.CreatedAt),
		)
		return err
	})
	if err != nil {
		return types.UsageLog{}, fmt.Errorf("inserting usage log: %w", err)
	}

	if in.PromptID != "" {
		if err := s.incrementUsage(ctx, userID, in.PromptID); err != nil {
			s.logger.Warn().Err(err).Str("prompt", in.PromptID).Msg("incrementing usage count")
		}
	}
	return log, nil
}

func (s *Store) incrementUsage(ctx context.Context, userID, promptID string) error {
	return s.withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`UPDATE prompt_entries SET usage_count = usage_count + 1 WHERE id = ? AND user_id = ?`,
			promptID, userID,
		)
		return err
	})
}

// ListUsage returns the user's usage log, newest first. limit <= 0 means
// DefaultUsageLimit; larger values are capped at MaxUsageLimit.
func (s *Store) ListUsage(ctx context.Context, userID string, limit int) ([]types.UsageLog, error) {
	if limit <= 0 {
		limit = DefaultUsageLimit
	}
	limit = min(limit, MaxUsageLimit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, prompt_id, project_id, combo_type, provider,
			tokens_input, tokens_output, cost_usd, metadata, created_at
		 FROM prompt_usage_logs WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usage logs: %w", err)
	}
	defer rows.Close()

	var logs []types.UsageLog
	for rows.Next() {
		var (
			l                                    types.UsageLog
			promptID, projectID, combo, provider sql.NullString
			tokensIn, tokensOut                  sql.NullInt64
			cost                                 sql.NullFloat64
			metaJSON                             sql.NullString
			createdAt                            string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &promptID, &projectID, &combo, &provider,
			&tokensIn, &tokensOut, &cost, &metaJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning usage log: %w", err)
		}
		l.PromptID = promptID.String
		l.ProjectID = projectID.String
		l.Combo = types.ComboType(combo.String)
		l.Provider = types.AIProvider(provider.String)
		l.TokensInput = int(tokensIn.Int64)
		l.TokensOutput = int(tokensOut.Int64)
		l.CostUSD = cost.Float64
		l.CreatedAt = parseTime(createdAt)
		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &l.Metadata); err != nil {
				return nil, fmt.Errorf("decoding usage metadata of %s: %w", l.ID, err)
			}
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// withBusyRetry retries fn while SQLite reports the database busy or locked.
func (s *Store) withBusyRetry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(25*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isBusy),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug().Uint("attempt", n+1).Err(err).Msg("database busy, retrying")
		}),
	)
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
