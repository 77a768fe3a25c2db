package ranking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pressdeck/pressdeck/internal/cache"
	"github.com/pressdeck/pressdeck/internal/metrics"
)

const (
	// MaxSearchResults bounds how many identifiers a search ranking keeps;
	// the cache stores only this truncated list.
	MaxSearchResults = 50

	// SearchTTL and TrendingTTL bound result staleness. They are short on
	// purpose: long enough to absorb burst repeat traffic, short enough
	// that rankings never lag noticeably.
	SearchTTL   = time.Minute
	TrendingTTL = 5 * time.Minute

	searchKeyPrefix  = "search:v1:q="
	trendingCacheKey = "public:trending:24h"
)

// Engine is the rank fusion engine. It owns the candidate-filter policy,
// the scoring order and the result-cache lifecycle; the collaborating
// stores are read-only to it. Engines are safe for concurrent use: the
// cache is the only shared mutable state.
type Engine struct {
	agg     *Aggregator
	results cache.ResultCache
	metrics *metrics.Ranking
	now     func() time.Time
}

type Option func(*Engine)

func WithMetrics(m *metrics.Ranking) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the time source used for recency decay, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
		e.agg.now = now
	}
}

func NewEngine(agg *Aggregator, results cache.ResultCache, opts ...Option) *Engine {
	e := &Engine{
		agg:     agg,
		results: results,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizeQuery produces the canonical form of a query used both for
// scoring and as the cache key suffix.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search ranks published articles for a free-text query and returns an
// ordered identifier list, highest relevance first. An empty (or
// whitespace-only) query yields zero rows; this is a valid empty result,
// not an error. Store failures propagate as transient errors and are never
// cached.
func (e *Engine) Search(ctx context.Context, query string) ([]uuid.UUID, error) {
	e.metrics.Request("search")

	q := NormalizeQuery(query)
	if q == "" {
		return nil, nil
	}

	key := searchKeyPrefix + q
	if ids, ok := e.cacheGet(ctx, key, "search"); ok {
		return ids, nil
	}

	started := time.Now()
	candidates, err := e.agg.Collect(ctx, q)
	if err != nil {
		return nil, err
	}

	ranked := fuse(candidates, true, e.now())
	ids := identifiers(ranked, MaxSearchResults)
	e.metrics.ObserveCompute("search", time.Since(started).Seconds())

	e.cachePut(ctx, key, ids, SearchTTL)
	return ids, nil
}

// cacheGet treats backend errors as misses so a cache outage degrades to
// recomputation rather than request failure.
func (e *Engine) cacheGet(ctx context.Context, key, feed string) ([]uuid.UUID, bool) {
	ids, ok, err := e.results.Get(ctx, key)
	if err != nil {
		slog.Warn("Result cache read failed, recomputing", "key", key, "error", err)
		e.metrics.CacheMiss(feed)
		return nil, false
	}
	if !ok {
		e.metrics.CacheMiss(feed)
		return nil, false
	}
	e.metrics.CacheHit(feed)
	return ids, true
}

func (e *Engine) cachePut(ctx context.Context, key string, ids []uuid.UUID, ttl time.Duration) {
	if err := e.results.Put(ctx, key, ids, ttl); err != nil {
		slog.Warn("Result cache write failed", "key", key, "error", err)
	}
}

func identifiers(ranked []scored, max int) []uuid.UUID {
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}
