package ranking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/cache"
	"github.com/pressdeck/pressdeck/internal/ranking"
)

var engineNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeIndex struct {
	signals []ranking.Signals
	err     error

	calls   int
	queries []string
}

func (f *fakeIndex) QuerySignals(_ context.Context, query string) ([]ranking.Signals, error) {
	f.calls++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.signals, nil
}

type fakeEvents struct {
	views map[uuid.UUID]int64
	err   error
}

func (f *fakeEvents) PageviewCounts(context.Context, time.Time) (map[uuid.UUID]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.views, nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]uuid.UUID, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Put(context.Context, string, []uuid.UUID, time.Duration) error {
	return errors.New("cache down")
}

func newEngine(index *fakeIndex, events *fakeEvents, results cache.ResultCache) *ranking.Engine {
	return ranking.NewEngine(
		ranking.NewAggregator(index, events),
		results,
		ranking.WithClock(func() time.Time { return engineNow }),
	)
}

func published(offset time.Duration) *time.Time {
	ts := engineNow.Add(-offset)
	return &ts
}

func TestSearch_EmptyQueryIsEmptyResult(t *testing.T) {
	index := &fakeIndex{}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	for _, q := range []string{"", "   ", "\t\n"} {
		ids, err := engine.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, ids)
	}
	assert.Zero(t, index.calls, "empty queries must not touch the content index")
}

func TestSearch_FusedOrdering(t *testing.T) {
	strongLexical := ranking.Signals{ID: uuid.New(), Lexical: 0.9, PublishedAt: published(72 * time.Hour)}
	boosted := ranking.Signals{ID: uuid.New(), Lexical: 0.5, IsEditorPick: true, PublishedAt: published(72 * time.Hour)}
	weak := ranking.Signals{ID: uuid.New(), Lexical: 0.1, PublishedAt: published(72 * time.Hour)}

	index := &fakeIndex{signals: []ranking.Signals{weak, boosted, strongLexical}}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	ids, err := engine.Search(context.Background(), "databases")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{strongLexical.ID, boosted.ID, weak.ID}, ids)
}

func TestSearch_PopularityLiftsRanking(t *testing.T) {
	quiet := ranking.Signals{ID: uuid.New(), Lexical: 0.3, PublishedAt: published(time.Hour)}
	busy := ranking.Signals{ID: uuid.New(), Lexical: 0.3, PublishedAt: published(time.Hour)}

	index := &fakeIndex{signals: []ranking.Signals{quiet, busy}}
	events := &fakeEvents{views: map[uuid.UUID]int64{busy.ID: 500}}
	engine := newEngine(index, events, cache.NewMemory())

	ids, err := engine.Search(context.Background(), "databases")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{busy.ID, quiet.ID}, ids)
}

func TestSearch_AppliesCandidateFilter(t *testing.T) {
	qualifies := ranking.Signals{ID: uuid.New(), Fuzzy: 0.35}
	noise := ranking.Signals{ID: uuid.New(), Lexical: 0.01, Views24h: 9999, IsEditorPick: true}

	index := &fakeIndex{signals: []ranking.Signals{noise, qualifies}}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	ids, err := engine.Search(context.Background(), "databses")
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{qualifies.ID}, ids)
}

func TestSearch_TruncatesToMaxResults(t *testing.T) {
	signals := make([]ranking.Signals, ranking.MaxSearchResults+25)
	for i := range signals {
		signals[i] = ranking.Signals{ID: uuid.New(), Lexical: 0.5}
	}

	index := &fakeIndex{signals: signals}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	ids, err := engine.Search(context.Background(), "databases")
	require.NoError(t, err)
	assert.Len(t, ids, ranking.MaxSearchResults)
}

func TestSearch_NormalizedQueriesShareCacheEntry(t *testing.T) {
	a := ranking.Signals{ID: uuid.New(), Lexical: 0.5}
	index := &fakeIndex{signals: []ranking.Signals{a}}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	first, err := engine.Search(context.Background(), "Databases")
	require.NoError(t, err)
	second, err := engine.Search(context.Background(), "  databases \n")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, index.calls, "the second variant should be a cache hit")
	assert.Equal(t, []string{"databases"}, index.queries)
}

func TestSearch_TransientErrorPropagatesAndIsNotCached(t *testing.T) {
	index := &fakeIndex{err: errors.New("connection refused")}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	_, err := engine.Search(context.Background(), "databases")
	require.Error(t, err)

	var te *apperr.TransientError
	require.ErrorAs(t, err, &te)

	// Once the store recovers, the same query must recompute rather than
	// serve a cached failure.
	index.err = nil
	index.signals = []ranking.Signals{{ID: uuid.New(), Lexical: 0.5}}

	ids, err := engine.Search(context.Background(), "databases")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Equal(t, 2, index.calls)
}

func TestSearch_EventStoreFailureFailsTheQuery(t *testing.T) {
	index := &fakeIndex{signals: []ranking.Signals{{ID: uuid.New(), Lexical: 0.5}}}
	events := &fakeEvents{err: errors.New("timeout")}
	engine := newEngine(index, events, cache.NewMemory())

	_, err := engine.Search(context.Background(), "databases")
	var te *apperr.TransientError
	require.ErrorAs(t, err, &te)
}

func TestSearch_CacheOutageDegradesToRecompute(t *testing.T) {
	index := &fakeIndex{signals: []ranking.Signals{{ID: uuid.New(), Lexical: 0.5}}}
	engine := newEngine(index, &fakeEvents{}, failingCache{})

	for i := 0; i < 3; i++ {
		ids, err := engine.Search(context.Background(), "databases")
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	}
	assert.Equal(t, 3, index.calls)
}

func TestTrending_RanksByViewsThenRecency(t *testing.T) {
	hot := ranking.Signals{ID: uuid.New(), PublishedAt: published(48 * time.Hour)}
	warmNew := ranking.Signals{ID: uuid.New(), PublishedAt: published(time.Hour)}
	warmOld := ranking.Signals{ID: uuid.New(), PublishedAt: published(96 * time.Hour)}
	cold := ranking.Signals{ID: uuid.New(), PublishedAt: published(time.Hour)}

	index := &fakeIndex{signals: []ranking.Signals{cold, warmOld, hot, warmNew}}
	events := &fakeEvents{views: map[uuid.UUID]int64{
		hot.ID:     300,
		warmNew.ID: 40,
		warmOld.ID: 40,
	}}
	engine := newEngine(index, events, cache.NewMemory())

	ids, err := engine.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{hot.ID, warmNew.ID, warmOld.ID}, ids)
	assert.Equal(t, []string{""}, index.queries, "trending collects over the whole corpus")
}

func TestTrending_QuietWindowIsEmptyNotError(t *testing.T) {
	index := &fakeIndex{signals: []ranking.Signals{
		{ID: uuid.New(), PublishedAt: published(time.Hour)},
	}}
	engine := newEngine(index, &fakeEvents{}, cache.NewMemory())

	ids, err := engine.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTrending_LimitClamping(t *testing.T) {
	signals := make([]ranking.Signals, 30)
	views := make(map[uuid.UUID]int64, len(signals))
	for i := range signals {
		signals[i] = ranking.Signals{ID: uuid.New(), PublishedAt: published(time.Hour)}
		views[signals[i].ID] = int64(100 - i)
	}
	index := &fakeIndex{signals: signals}
	engine := newEngine(index, &fakeEvents{views: views}, cache.NewMemory())

	cases := []struct {
		limit int
		want  int
	}{
		{0, ranking.DefaultTrendingLimit},
		{-3, ranking.DefaultTrendingLimit},
		{5, 5},
		{500, ranking.MaxTrendingLimit},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("limit=%d", tc.limit), func(t *testing.T) {
			ids, err := engine.Trending(context.Background(), tc.limit)
			require.NoError(t, err)
			assert.Len(t, ids, tc.want)
		})
	}
}

func TestTrending_SharesOneCacheEntryAcrossLimits(t *testing.T) {
	signals := make([]ranking.Signals, 25)
	views := make(map[uuid.UUID]int64, len(signals))
	for i := range signals {
		signals[i] = ranking.Signals{ID: uuid.New(), PublishedAt: published(time.Hour)}
		views[signals[i].ID] = int64(100 - i)
	}
	index := &fakeIndex{signals: signals}
	engine := newEngine(index, &fakeEvents{views: views}, cache.NewMemory())

	five, err := engine.Trending(context.Background(), 5)
	require.NoError(t, err)
	twenty, err := engine.Trending(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, 1, index.calls, "second request should serve from cache")
	assert.Equal(t, five, twenty[:5], "smaller limits are prefixes of the cached list")
}

func TestTrendingUncached_BypassesCacheAndReportsViews(t *testing.T) {
	a := ranking.Signals{ID: uuid.New(), PublishedAt: published(time.Hour)}
	index := &fakeIndex{signals: []ranking.Signals{a}}
	events := &fakeEvents{views: map[uuid.UUID]int64{a.ID: 77}}
	engine := newEngine(index, events, cache.NewMemory())

	for i := 0; i < 2; i++ {
		entries, err := engine.TrendingUncached(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, a.ID, entries[0].ID)
		assert.Equal(t, int64(77), entries[0].Views24h)
	}
	assert.Equal(t, 2, index.calls, "editor view must never serve from cache")
}

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"  AI  ":    "ai",
		"Databases": "databases",
		"\tMiXeD\n": "mixed",
		"":          "",
		"   ":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ranking.NormalizeQuery(in))
	}
}
