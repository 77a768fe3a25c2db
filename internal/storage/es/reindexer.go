package es

import (
	"context"

	"github.com/google/uuid"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// ArticleSource loads the authoritative article record for indexing.
type ArticleSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

// Reindexer rebuilds a single article's search document from the store of
// record. Articles that are not live are removed from the index so ranking
// never surfaces them.
type Reindexer struct {
	source  ArticleSource
	indexer *Indexer
}

func NewReindexer(source ArticleSource, indexer *Indexer) *Reindexer {
	return &Reindexer{source: source, indexer: indexer}
}

func (r *Reindexer) Reindex(ctx context.Context, articleID uuid.UUID) error {
	article, err := r.source.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	// Unlike the Postgres vector, the index has no status column to filter
	// on at query time, so only live articles may be present in it.
	if !article.Status.Rankable() {
		return r.indexer.Delete(ctx, articleID)
	}
	return r.indexer.Index(ctx, *article)
}
