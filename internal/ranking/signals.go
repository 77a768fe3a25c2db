// Package ranking turns free-text queries and trending requests into
// ordered article identifier lists by fusing lexical relevance, fuzzy title
// similarity, editorial promotion, windowed popularity and recency into a
// single score.
package ranking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pressdeck/pressdeck/internal/apperr"
)

// PopularityWindow is the rolling window over pageview events that feeds
// the popularity signal.
const PopularityWindow = 24 * time.Hour

// Signals is the raw per-article input tuple for rank fusion. It is never
// persisted; a fresh set is collected on every cache miss.
type Signals struct {
	ID uuid.UUID

	// Lexical is the text-search relevance of the query against the
	// article's indexed document. Zero when the query is empty.
	Lexical float64

	// Fuzzy is the trigram-style similarity between the query and the
	// article title, rescuing near-miss and typo queries.
	Fuzzy float64

	// Views24h is the pageview count inside PopularityWindow.
	Views24h int64

	IsEditorPick bool
	PublishedAt  *time.Time
}

// ContentIndex serves the query-dependent signals from the published-article
// corpus. For an empty query it returns every published article with zero
// lexical and fuzzy scores; for a non-empty query it may return any superset
// of the articles that pass the candidate filter.
type ContentIndex interface {
	QuerySignals(ctx context.Context, query string) ([]Signals, error)
}

// EventStore serves windowed pageview counts. Articles without events in the
// window are simply absent from the map.
type EventStore interface {
	PageviewCounts(ctx context.Context, since time.Time) (map[uuid.UUID]int64, error)
}

// Aggregator joins the content-index and event-store signals for one
// request. Both reads are independent and issued concurrently; if either
// fails the whole collection fails, since partial-signal scoring is not
// permitted.
type Aggregator struct {
	index  ContentIndex
	events EventStore
	now    func() time.Time
}

func NewAggregator(index ContentIndex, events EventStore) *Aggregator {
	return &Aggregator{index: index, events: events, now: time.Now}
}

func (a *Aggregator) Collect(ctx context.Context, query string) ([]Signals, error) {
	var (
		candidates []Signals
		views      map[uuid.UUID]int64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = a.index.QuerySignals(ctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = a.events.PageviewCounts(ctx, a.now().Add(-PopularityWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.NewTransient("collecting ranking signals", err)
	}

	for i := range candidates {
		candidates[i].Views24h = views[candidates[i].ID]
	}
	return candidates, nil
}
