// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend blends stored library prompts, fallback templates, and
// external model suggestions into one ranked, cached recommendation list.
//
// A request flows through validation, a cache lookup, and on a miss the
// candidate sources. The external suggester runs concurrently with the
// stored fetch; every source degrades to an empty list on failure, so the
// only errors Recommend returns are invalid requests and cancellation.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/promptrec/internal/cache"
	"github.com/pdiddy/promptrec/internal/metrics"
	"github.com/pdiddy/promptrec/pkg/types"
)

// StoredSource fetches library entries visible to a user. Implementations
// log their own failures and return an empty slice instead of an error.
type StoredSource interface {
	Candidates(ctx context.Context, userID string, category types.ComboType) []types.PromptEntry
}

// TemplateSource provides the fallback templates.
type TemplateSource interface {
	Templates() []types.PromptTemplate
}

// Suggester produces external suggestions. It never fails: any problem
// yields an empty slice.
type Suggester interface {
	Suggest(ctx context.Context, req types.SuggestionRequest) []types.Candidate
}

// Engine produces recommendations. It is safe for concurrent use.
type Engine struct {
	cfg       types.RecommendConfig
	stored    StoredSource
	templates TemplateSource
	suggester Suggester
	cache     *cache.TTL[[]types.Candidate]
	user      func(context.Context) string
	metrics   *metrics.Recorder
	logger    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSuggester enables external suggestions.
func WithSuggester(s Suggester) Option {
	return func(e *Engine) { e.suggester = s }
}

// WithCache replaces the default cache, for example to inject a clock.
func WithCache(c *cache.TTL[[]types.Candidate]) Option {
	return func(e *Engine) { e.cache = c }
}

// WithUser sets how the acting user is resolved from a request context.
func WithUser(f func(context.Context) string) Option {
	return func(e *Engine) { e.user = f }
}

// WithMetrics records request and candidate counters on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// StaticUser resolves every request to id.
func StaticUser(id string) func(context.Context) string {
	return func(context.Context) string { return id }
}

// NewEngine creates an engine. Zero-valued config fields take the defaults
// from types.DefaultConfig. stored and templates may be nil.
func NewEngine(cfg types.RecommendConfig, stored StoredSource, templates TemplateSource, opts ...Option) *Engine {
	def := types.DefaultConfig().Recommend
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}

	e := &Engine{
		cfg:       cfg,
		stored:    stored,
		templates: templates,
		user:      StaticUser("anonymous"),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.New[[]types.Candidate](cfg.CacheTTL, nil)
	}
	return e
}

// Cache exposes the engine's recommendation cache.
func (e *Engine) Cache() *cache.TTL[[]types.Candidate] {
	return e.cache
}

// Recommend returns at most rc.Limit ranked candidates for the acting user.
func (e *Engine) Recommend(ctx context.Context, rc Request) ([]types.Candidate, error) {
	start := time.Now()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	limit := rc.Limit
	if limit == 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return nil, fmt.Errorf("%w: limit %d exceeds maximum %d", ErrInvalidRequest, limit, e.cfg.MaxLimit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	category := rc.requestedCategory()
	effective := EffectiveTags(rc.Tags, rc.Purpose)
	userID := e.user(ctx)
	key := CacheKey(userID, category, effective, rc.Purpose)

	log := e.logger.With().Str("user", userID).Str("key", key).Int("limit", limit).Logger()

	if ranked, ok := e.cache.Get(key); ok {
		log.Debug().Int("cached", len(ranked)).Msg("cache hit")
		e.metrics.ObserveRequest(true, time.Since(start))
		return head(ranked, limit), nil
	}

	external := make(chan []types.Candidate, 1)
	if e.suggester != nil {
		req := types.SuggestionRequest{
			Category:      category,
			Tags:          types.NormalizeTags(rc.Tags, 0),
			EffectiveTags: effective,
			Purpose:       rc.Purpose,
		}
		go func() {
			external <- e.suggester.Suggest(ctx, req)
		}()
	} else {
		external <- nil
	}

	var entries []types.PromptEntry
	if e.stored != nil {
		entries = e.stored.Candidates(ctx, userID, category)
	}
	pool := make([]types.Candidate, 0, len(entries)+8)
	for _, entry := range entries {
		pool = append(pool, scoreEntry(entry, category, effective))
	}
	e.metrics.AddCandidates(string(types.SourceStored), len(pool))

	if len(entries) < limit && e.templates != nil {
		fallback := fallbackCandidates(e.templates.Templates(), category, effective)
		e.metrics.AddCandidates(string(types.SourceFallback), len(fallback))
		pool = append(pool, fallback...)
	}

	var suggestions []types.Candidate
	select {
	case suggestions = <-external:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.metrics.AddCandidates(string(types.SourceExternal), len(suggestions))
	pool = append(pool, suggestions...)

	ranked := rank(pool, limit)
	e.cache.Put(key, ranked)

	log.Debug().
		Int("stored", len(entries)).
		Int("external", len(suggestions)).
		Int("ranked", len(ranked)).
		Msg("recommendations ranked")
	e.metrics.ObserveRequest(false, time.Since(start))
	return head(ranked, limit), nil
}
