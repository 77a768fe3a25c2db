package pg

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/domain"
	pkgtesting "github.com/pressdeck/pressdeck/pkg/testing"
)

var (
	testCtx      context.Context
	testPool     *ConnectionPool
	testArticles *ArticleRepository
	testEvents   *EventStore
	testSignals  *SignalReader
	testIndexer  *Indexer
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pgc, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "pressdeck_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(pgc.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pgc.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testArticles = NewArticleRepository(testPool)
	testEvents = NewEventStore(testPool)
	testSignals = NewSignalReader(testPool)
	testIndexer = NewIndexer(testPool)

	os.Exit(m.Run())
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE events, article_versions, article_tags, article_authors, articles, tags, authors, series, categories CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func insertPublished(t *testing.T, title, slug string) *domain.Article {
	t.Helper()
	now := time.Now().UTC()
	a := &domain.Article{
		Title:       title,
		Slug:        slug,
		Dek:         "A dek for " + title,
		Body:        "Body text about " + title,
		Status:      domain.StatusPublished,
		PublishAt:   &now,
		PublishedAt: &now,
	}
	if err := testArticles.Create(testCtx, a); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	if err := testIndexer.Reindex(testCtx, a.ID); err != nil {
		t.Fatalf("failed to reindex article: %v", err)
	}
	return a
}

func TestArticleRepository_GetPublishedBySlugHidesDrafts(t *testing.T) {
	truncateAll(t)

	draft := &domain.Article{Title: "Hidden", Slug: "hidden", Status: domain.StatusDraft}
	if err := testArticles.Create(testCtx, draft); err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}

	_, err := testArticles.GetPublishedBySlug(testCtx, "hidden")
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found for draft on public path, got %v", err)
	}

	if _, err := testArticles.GetBySlug(testCtx, "hidden"); err != nil {
		t.Errorf("editorial lookup should still see the draft: %v", err)
	}
}

func TestArticleRepository_ListPublishedByIDsPreservesOrder(t *testing.T) {
	truncateAll(t)

	a := insertPublished(t, "Alpha", "alpha")
	b := insertPublished(t, "Beta", "beta")
	c := insertPublished(t, "Gamma", "gamma")
	missing := uuid.New()

	got, err := testArticles.ListPublishedByIDs(testCtx, []uuid.UUID{c.ID, missing, a.ID, b.ID})
	if err != nil {
		t.Fatalf("hydration failed: %v", err)
	}

	want := []uuid.UUID{c.ID, a.ID, b.ID}
	if len(got) != len(want) {
		t.Fatalf("expected %d articles, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i].ID)
		}
	}
}

func TestSignalReader_LexicalAndFuzzySignals(t *testing.T) {
	truncateAll(t)

	match := insertPublished(t, "The Quiet Rise of Boring Databases", "boring-databases")
	insertPublished(t, "Notes on a City That Never Finished", "city-never-finished")

	signals, err := testSignals.QuerySignals(testCtx, "databases")
	if err != nil {
		t.Fatalf("signal query failed: %v", err)
	}

	if len(signals) != 1 {
		t.Fatalf("expected exactly the matching article, got %d signals", len(signals))
	}
	s := signals[0]
	if s.ID != match.ID {
		t.Errorf("expected article %s, got %s", match.ID, s.ID)
	}
	if s.Lexical <= 0 {
		t.Errorf("expected positive lexical score, got %v", s.Lexical)
	}
	if s.PublishedAt == nil {
		t.Error("expected published timestamp on signals")
	}
}

func TestSignalReader_EmptyQueryReturnsPublishedCorpus(t *testing.T) {
	truncateAll(t)

	insertPublished(t, "Alpha", "alpha")
	insertPublished(t, "Beta", "beta")
	draft := &domain.Article{Title: "Draft", Slug: "draft", Status: domain.StatusDraft}
	if err := testArticles.Create(testCtx, draft); err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}

	signals, err := testSignals.QuerySignals(testCtx, "")
	if err != nil {
		t.Fatalf("corpus query failed: %v", err)
	}

	if len(signals) != 2 {
		t.Fatalf("expected 2 published signals, got %d", len(signals))
	}
	for _, s := range signals {
		if s.Lexical != 0 || s.Fuzzy != 0 {
			t.Errorf("corpus signals must carry zero query scores, got %+v", s)
		}
	}
}

func TestSignalReader_DraftsNeverMatch(t *testing.T) {
	truncateAll(t)

	draft := &domain.Article{
		Title:  "Unreleased Databases Deep Dive",
		Slug:   "unreleased-databases",
		Status: domain.StatusDraft,
	}
	if err := testArticles.Create(testCtx, draft); err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}
	if err := testIndexer.Reindex(testCtx, draft.ID); err != nil {
		t.Fatalf("failed to reindex: %v", err)
	}

	signals, err := testSignals.QuerySignals(testCtx, "databases")
	if err != nil {
		t.Fatalf("signal query failed: %v", err)
	}
	if len(signals) != 0 {
		t.Errorf("drafts must never produce signals, got %d", len(signals))
	}
}

func TestEventStore_PageviewCountsWindow(t *testing.T) {
	truncateAll(t)

	a := insertPublished(t, "Alpha", "alpha")
	b := insertPublished(t, "Beta", "beta")

	for i := 0; i < 3; i++ {
		if err := testEvents.Record(testCtx, domain.Event{Kind: domain.EventPageview, ArticleID: a.ID}); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
	}
	if err := testEvents.Record(testCtx, domain.Event{Kind: domain.EventRead, ArticleID: a.ID}); err != nil {
		t.Fatalf("failed to record read event: %v", err)
	}
	if err := testEvents.Record(testCtx, domain.Event{Kind: domain.EventPageview, ArticleID: b.ID}); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}

	counts, err := testEvents.PageviewCounts(testCtx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}

	if counts[a.ID] != 3 {
		t.Errorf("expected 3 pageviews for alpha, got %d", counts[a.ID])
	}
	if counts[b.ID] != 1 {
		t.Errorf("expected 1 pageview for beta, got %d", counts[b.ID])
	}

	// Reads count toward engagement, never toward popularity.
	future, err := testEvents.PageviewCounts(testCtx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("expected no counts inside an empty window, got %v", future)
	}
}

func TestEventStore_PruneBefore(t *testing.T) {
	truncateAll(t)

	a := insertPublished(t, "Alpha", "alpha")
	for i := 0; i < 5; i++ {
		if err := testEvents.Record(testCtx, domain.Event{Kind: domain.EventPageview, ArticleID: a.ID}); err != nil {
			t.Fatalf("failed to record event: %v", err)
		}
	}

	cutoff := time.Now().UTC().Add(time.Minute)

	n, err := testEvents.CountBefore(testCtx, cutoff)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 prunable events, got %d", n)
	}

	deleted, err := testEvents.PruneBefore(testCtx, cutoff)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if deleted != 5 {
		t.Errorf("expected 5 deleted events, got %d", deleted)
	}

	remaining, err := testEvents.CountBefore(testCtx, cutoff)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected no events after prune, got %d", remaining)
	}
}

func TestArticleRepository_WorkflowStateRoundTrip(t *testing.T) {
	truncateAll(t)

	a := &domain.Article{Title: "Draft", Slug: "draft", Status: domain.StatusDraft}
	if err := testArticles.Create(testCtx, a); err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Microsecond)
	if err := testArticles.SetWorkflowState(testCtx, a.ID, domain.StatusScheduled, &at, nil); err != nil {
		t.Fatalf("failed to set state: %v", err)
	}

	got, err := testArticles.GetByID(testCtx, a.ID)
	if err != nil {
		t.Fatalf("failed to fetch: %v", err)
	}
	if got.Status != domain.StatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", got.Status)
	}
	if got.PublishAt == nil || !got.PublishAt.Equal(at) {
		t.Errorf("expected publish_at %v, got %v", at, got.PublishAt)
	}

	due, err := testArticles.ListDue(testCtx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("list due failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != a.ID {
		t.Errorf("expected the scheduled article to be due, got %d articles", len(due))
	}
}

func TestArticleRepository_VersionsAppend(t *testing.T) {
	truncateAll(t)

	a := insertPublished(t, "Alpha", "alpha")

	for _, kind := range []domain.VersionKind{domain.VersionSubmit, domain.VersionPublish} {
		err := testArticles.SaveVersion(testCtx, domain.ArticleVersion{
			ArticleID: a.ID,
			Kind:      kind,
			Title:     a.Title,
			Slug:      a.Slug,
			Body:      a.Body,
		})
		if err != nil {
			t.Fatalf("failed to save version: %v", err)
		}
	}

	var n int
	if err := testPool.GetConn().QueryRow(testCtx, "SELECT COUNT(*) FROM article_versions WHERE article_id = $1", a.ID).Scan(&n); err != nil {
		t.Fatalf("failed to count versions: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 versions, got %d", n)
	}
}
