// Package editorial implements the article lifecycle state machine:
// draft → in review → scheduled → published. Transitions snapshot content
// and keep the search index in step with what readers can see.
package editorial

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/domain"
)

type ArticleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	SetWorkflowState(ctx context.Context, id uuid.UUID, status domain.ArticleStatus, publishAt, publishedAt *time.Time) error
	SaveVersion(ctx context.Context, v domain.ArticleVersion) error
	ListDue(ctx context.Context, now time.Time) ([]domain.Article, error)
}

// SearchIndexer rebuilds an article's search document. The workflow calls
// it on schedule and publish so the ranking reads never see a stale vector
// for live content.
type SearchIndexer interface {
	Reindex(ctx context.Context, articleID uuid.UUID) error
}

type Workflow struct {
	articles ArticleStore
	index    SearchIndexer
	now      func() time.Time
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func NewWorkflow(articles ArticleStore, index SearchIndexer, opts ...Option) *Workflow {
	w := &Workflow{articles: articles, index: index, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit moves a draft into review.
func (w *Workflow) Submit(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := w.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusDraft {
		return nil, apperr.NewValidation("only drafts can be submitted")
	}

	a.Status = domain.StatusInReview
	if err := w.articles.SetWorkflowState(ctx, a.ID, a.Status, a.PublishAt, a.PublishedAt); err != nil {
		return nil, err
	}
	return a, w.snapshot(ctx, a, domain.VersionSubmit)
}

// Approve accepts an in-review article for publication. Articles without a
// scheduled time become publishable immediately.
func (w *Workflow) Approve(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := w.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusInReview {
		return nil, apperr.NewValidation("only in-review articles can be approved")
	}

	a.Status = domain.StatusScheduled
	if a.PublishAt == nil {
		now := w.now()
		a.PublishAt = &now
	}
	if err := w.articles.SetWorkflowState(ctx, a.ID, a.Status, a.PublishAt, a.PublishedAt); err != nil {
		return nil, err
	}
	return a, w.snapshot(ctx, a, domain.VersionApprove)
}

// Schedule pins the publication time. The search document is rebuilt now so
// search is warm the moment the article goes live.
func (w *Workflow) Schedule(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Article, error) {
	a, err := w.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusInReview && a.Status != domain.StatusScheduled {
		return nil, apperr.NewValidation("article must be in review or scheduled")
	}

	a.Status = domain.StatusScheduled
	a.PublishAt = &at
	if err := w.articles.SetWorkflowState(ctx, a.ID, a.Status, a.PublishAt, a.PublishedAt); err != nil {
		return nil, err
	}
	if err := w.index.Reindex(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, w.snapshot(ctx, a, domain.VersionSchedule)
}

// PublishNow takes a scheduled or in-review article live immediately.
func (w *Workflow) PublishNow(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := w.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusScheduled && a.Status != domain.StatusInReview {
		return nil, apperr.NewValidation("article must be scheduled or in review")
	}
	return w.publish(ctx, a)
}

// PublishDue publishes every scheduled article whose publish time has
// passed, returning how many went live. Run from cron.
func (w *Workflow) PublishDue(ctx context.Context) (int, error) {
	due, err := w.articles.ListDue(ctx, w.now())
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range due {
		if _, err := w.publish(ctx, &due[i]); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}

func (w *Workflow) publish(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	now := w.now()
	a.Status = domain.StatusPublished
	a.PublishedAt = &now
	if a.PublishAt == nil {
		a.PublishAt = &now
	}

	if err := w.articles.SetWorkflowState(ctx, a.ID, a.Status, a.PublishAt, a.PublishedAt); err != nil {
		return nil, err
	}
	// The vector must reflect the published content before the next
	// ranking read.
	if err := w.index.Reindex(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, w.snapshot(ctx, a, domain.VersionPublish)
}

func (w *Workflow) snapshot(ctx context.Context, a *domain.Article, kind domain.VersionKind) error {
	return w.articles.SaveVersion(ctx, domain.ArticleVersion{
		ArticleID: a.ID,
		Kind:      kind,
		Title:     a.Title,
		Slug:      a.Slug,
		Dek:       a.Dek,
		Body:      a.Body,
	})
}
