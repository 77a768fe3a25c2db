package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Indexer maintains the materialized search vector. The workflow calls
// Reindex on schedule and publish, and whenever title, dek, body or tags
// change on a live article, so the vector always reflects the current
// published content before the next ranking read.
type Indexer struct {
	db *pgxpool.Pool
}

func NewIndexer(pool *ConnectionPool) *Indexer {
	return &Indexer{db: pool.conn}
}

// Reindex rebuilds one article's search vector from title (weight A),
// dek and tag names (B) and body (C).
func (ix *Indexer) Reindex(ctx context.Context, articleID uuid.UUID) error {
	cmd := `
		UPDATE articles a
		SET search_tsv =
			setweight(to_tsvector('english', coalesce(a.title, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(a.dek, '')), 'B') ||
			setweight(to_tsvector('english', coalesce((
				SELECT string_agg(t.name, ' ')
				FROM article_tags at
				JOIN tags t ON t.id = at.tag_id
				WHERE at.article_id = a.id
			), '')), 'B') ||
			setweight(to_tsvector('english', coalesce(a.body_md, '')), 'C')
		WHERE a.id = $1
	`
	if _, err := ix.db.Exec(ctx, cmd, articleID); err != nil {
		return fmt.Errorf("failed to rebuild search vector: %w", err)
	}
	return nil
}

// ReindexAll rebuilds every vector, for backfills after schema changes.
func (ix *Indexer) ReindexAll(ctx context.Context) (int64, error) {
	cmd := `
		UPDATE articles a
		SET search_tsv =
			setweight(to_tsvector('english', coalesce(a.title, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(a.dek, '')), 'B') ||
			setweight(to_tsvector('english', coalesce((
				SELECT string_agg(t.name, ' ')
				FROM article_tags at
				JOIN tags t ON t.id = at.tag_id
				WHERE at.article_id = a.id
			), '')), 'B') ||
			setweight(to_tsvector('english', coalesce(a.body_md, '')), 'C')
	`
	tag, err := ix.db.Exec(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild search vectors: %w", err)
	}
	return tag.RowsAffected(), nil
}
