package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pressdeck/pressdeck/internal/ranking"
)

// candidateLimit bounds how many candidates each signal query pulls; the
// engine truncates far below this anyway.
const candidateLimit = 200

// corpusLimit bounds the empty-query corpus scan used by trending.
const corpusLimit = 10_000

// SignalReader is the Elasticsearch content index. Lexical relevance comes
// from a weighted multi_match, fuzzy similarity from an edit-distance title
// match. BM25 scores are unbounded, so both signals are normalized by their
// page maximum into [0, 1] before fusion, the same way the Postgres backend
// normalizes against ts_rank scale.
type SignalReader struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSignalReader(config ClientConfig) (*SignalReader, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexName := config.IndexName
	if indexName == "" {
		indexName = DefaultIndexName
	}
	return &SignalReader{client: client, indexName: indexName}, nil
}

func (r *SignalReader) QuerySignals(ctx context.Context, query string) ([]ranking.Signals, error) {
	if query == "" {
		return r.publishedCorpus(ctx)
	}

	// The lexical and fuzzy reads are independent; issue them in parallel
	// and join by document before fusion.
	var lexical, fuzzy map[uuid.UUID]hit

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lexical, err = r.search(ctx, &types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  query,
				Fields: []string{"title^3", "dek^2", "tags^2", "body"},
			},
		})
		return err
	})
	g.Go(func() error {
		fuzziness := "AUTO"
		var err error
		fuzzy, err = r.search(ctx, &types.Query{
			Match: map[string]types.MatchQuery{
				"title": {Query: query, Fuzziness: fuzziness},
			},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return joinSignals(lexical, fuzzy), nil
}

type hit struct {
	score float64
	doc   ArticleDocument
}

func (r *SignalReader) search(ctx context.Context, query *types.Query) (map[uuid.UUID]hit, error) {
	res, err := r.client.Search().
		Index(r.indexName).
		Query(query).
		Size(candidateLimit).
		TrackScores(true).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	maxScore := 0.0
	if res.Hits.MaxScore != nil {
		maxScore = float64(*res.Hits.MaxScore)
	}

	hits := make(map[uuid.UUID]hit, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		var doc ArticleDocument
		if err := json.Unmarshal(h.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			slog.Warn("Skipping document with invalid id", "id", doc.ID)
			continue
		}

		score := 0.0
		if h.Score_ != nil && maxScore > 0 {
			score = float64(*h.Score_) / maxScore
		}
		hits[id] = hit{score: score, doc: doc}
	}
	return hits, nil
}

func joinSignals(lexical, fuzzy map[uuid.UUID]hit) []ranking.Signals {
	out := make([]ranking.Signals, 0, len(lexical)+len(fuzzy))

	for id, h := range lexical {
		s := ranking.Signals{
			ID:           id,
			Lexical:      h.score,
			IsEditorPick: h.doc.IsEditorPick,
			PublishedAt:  h.doc.PublishedAt,
		}
		if f, ok := fuzzy[id]; ok {
			s.Fuzzy = f.score
		}
		out = append(out, s)
	}
	for id, h := range fuzzy {
		if _, seen := lexical[id]; seen {
			continue
		}
		out = append(out, ranking.Signals{
			ID:           id,
			Fuzzy:        h.score,
			IsEditorPick: h.doc.IsEditorPick,
			PublishedAt:  h.doc.PublishedAt,
		})
	}
	return out
}

func (r *SignalReader) publishedCorpus(ctx context.Context) ([]ranking.Signals, error) {
	res, err := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Size(corpusLimit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan index: %w", err)
	}

	out := make([]ranking.Signals, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		var doc ArticleDocument
		if err := json.Unmarshal(h.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			slog.Warn("Skipping document with invalid id", "id", doc.ID)
			continue
		}
		out = append(out, ranking.Signals{
			ID:           id,
			IsEditorPick: doc.IsEditorPick,
			PublishedAt:  doc.PublishedAt,
		})
	}
	return out, nil
}

var _ ranking.ContentIndex = (*SignalReader)(nil)
