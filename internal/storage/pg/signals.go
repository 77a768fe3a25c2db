package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdeck/pressdeck/internal/ranking"
)

// SignalReader is the Postgres content index: lexical relevance comes from
// ts_rank_cd over the materialized search vector, fuzzy similarity from
// pg_trgm's similarity() against the title. Both live on indexed columns so
// a single round-trip serves the query-dependent signals.
type SignalReader struct {
	db *pgxpool.Pool
}

func NewSignalReader(pool *ConnectionPool) *SignalReader {
	return &SignalReader{db: pool.conn}
}

// QuerySignals returns per-article ranking signals for published articles.
//
// The WHERE clause is a superset of the engine's candidate filter: `%`
// matches at pg_trgm's default 0.3 similarity threshold, which equals the
// engine's fuzzy floor, while tsquery matches below the lexical floor are
// let through for the engine to cut. Empty queries return the whole
// published corpus with zero query scores.
func (r *SignalReader) QuerySignals(ctx context.Context, query string) ([]ranking.Signals, error) {
	if query == "" {
		return r.publishedCorpus(ctx)
	}

	searchSQL := `
		SELECT
			id,
			ts_rank_cd(search_tsv, plainto_tsquery('english', $1)) AS lexical,
			similarity(title, $1) AS fuzzy,
			is_editor_pick,
			published_at
		FROM articles
		WHERE status = 'PUBLISHED'
		  AND (search_tsv @@ plainto_tsquery('english', $1) OR title % $1)
	`
	return r.querySignals(ctx, searchSQL, query)
}

func (r *SignalReader) publishedCorpus(ctx context.Context) ([]ranking.Signals, error) {
	corpusSQL := `
		SELECT id, 0.0::float8 AS lexical, 0.0::float8 AS fuzzy, is_editor_pick, published_at
		FROM articles
		WHERE status = 'PUBLISHED'
	`
	return r.querySignals(ctx, corpusSQL)
}

func (r *SignalReader) querySignals(ctx context.Context, sql string, args ...any) ([]ranking.Signals, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking signals: %w", err)
	}
	defer rows.Close()

	var out []ranking.Signals
	for rows.Next() {
		var s ranking.Signals
		if err := rows.Scan(&s.ID, &s.Lexical, &s.Fuzzy, &s.IsEditorPick, &s.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking signals: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

var _ ranking.ContentIndex = (*SignalReader)(nil)
