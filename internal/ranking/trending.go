package ranking

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
)

const (
	// DefaultTrendingLimit applies when the caller supplies no limit;
	// MaxTrendingLimit is the hard cap on the public feed.
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 20

	// EditorTrendingLimit bounds the uncached editor view.
	EditorTrendingLimit = 50
)

// TrendingEntry is one row of the popularity ranking; the editor view
// exposes the raw count alongside the identifier.
type TrendingEntry struct {
	ID       uuid.UUID
	Views24h int64
}

// Trending ranks published articles purely by pageviews inside the
// popularity window, descending, ties broken by published timestamp
// descending. Only articles with at least one pageview appear, so a quiet
// day yields an empty result. The full capped list is cached under a fixed
// key for TrendingTTL; the limit is applied on the way out.
func (e *Engine) Trending(ctx context.Context, limit int) ([]uuid.UUID, error) {
	e.metrics.Request("trending")
	limit = clampTrendingLimit(limit)

	if ids, ok := e.cacheGet(ctx, trendingCacheKey, "trending"); ok {
		return head(ids, limit), nil
	}

	entries, err := e.trendingEntries(ctx, MaxTrendingLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, t := range entries {
		ids[i] = t.ID
	}
	e.cachePut(ctx, trendingCacheKey, ids, TrendingTTL)
	return head(ids, limit), nil
}

// TrendingUncached is the editor view: no cache in front, raw view counts
// included. Editors use it to watch a story take off in real time.
func (e *Engine) TrendingUncached(ctx context.Context) ([]TrendingEntry, error) {
	e.metrics.Request("trending")
	return e.trendingEntries(ctx, EditorTrendingLimit)
}

// trendingEntries is the trending specialization of rank fusion: the
// query-dependent terms are fixed to zero (signals are collected with an
// empty query, bypassing the candidate filter) and the relaxed filter keeps
// only articles with nonzero windowed popularity.
func (e *Engine) trendingEntries(ctx context.Context, limit int) ([]TrendingEntry, error) {
	candidates, err := e.agg.Collect(ctx, "")
	if err != nil {
		return nil, err
	}

	active := candidates[:0]
	for _, c := range candidates {
		if c.Views24h > 0 {
			active = append(active, c)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Views24h != b.Views24h {
			return a.Views24h > b.Views24h
		}
		if c := comparePublished(a.PublishedAt, b.PublishedAt); c != 0 {
			return c > 0
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	if len(active) > limit {
		active = active[:limit]
	}
	entries := make([]TrendingEntry, len(active))
	for i, c := range active {
		entries[i] = TrendingEntry{ID: c.ID, Views24h: c.Views24h}
	}
	return entries, nil
}

func clampTrendingLimit(limit int) int {
	if limit <= 0 {
		return DefaultTrendingLimit
	}
	if limit > MaxTrendingLimit {
		return MaxTrendingLimit
	}
	return limit
}

func head(ids []uuid.UUID, limit int) []uuid.UUID {
	if len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
