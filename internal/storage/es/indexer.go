package es

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// Indexer keeps the Elasticsearch article index in step with the published
// corpus: the workflow indexes on publish and re-index, and deletes on
// archive, so the index never contains unpublished content.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexName := config.IndexName
	if indexName == "" {
		indexName = DefaultIndexName
	}

	ix := &Indexer{client: client, indexName: indexName}
	if err := ix.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return ix, nil
}

func (ix *Indexer) ensureIndex(ctx context.Context) error {
	exists, err := ix.client.Indices.Exists(ix.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := ix.client.Indices.Create(ix.indexName).Do(ctx); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	slog.Info("Created article index", "index", ix.indexName)
	return nil
}

func (ix *Indexer) Index(ctx context.Context, article domain.Article) error {
	doc := mapToDocument(article)

	res, err := ix.client.Index(ix.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	slog.Info("Document indexed", "id", doc.ID, "index", ix.indexName, "result", res.Result)
	return nil
}

// Delete removes a document. A missing document is not an error; callers
// delete on every transition out of the live states regardless of whether
// the article was ever indexed.
func (ix *Indexer) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := ix.client.Delete(ix.indexName, id.String()).Do(ctx); err != nil {
		var esErr *types.ElasticsearchError
		if errors.As(err, &esErr) && esErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
