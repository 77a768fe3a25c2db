package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// EventStore is the append-only interaction log. Inserts come from the
// public ingestion endpoints; the ranking engine only reads aggregates.
type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(pool *ConnectionPool) *EventStore {
	return &EventStore{db: pool.conn}
}

func (s *EventStore) Record(ctx context.Context, ev domain.Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	cmd := `
		INSERT INTO events (id, kind, article_id, path, referrer, user_agent, read_ratio, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`
	_, err := s.db.Exec(ctx, cmd,
		ev.ID, ev.Kind, ev.ArticleID,
		truncate(ev.Path, 512), truncate(ev.Referrer, 512), truncate(ev.UserAgent, 512),
		ev.ReadRatio, ev.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// PageviewCounts aggregates pageview events since the cutoff, grouped by
// article. Articles without recent pageviews are absent from the map.
func (s *EventStore) PageviewCounts(ctx context.Context, since time.Time) (map[uuid.UUID]int64, error) {
	query := `
		SELECT article_id, COUNT(*)
		FROM events
		WHERE kind = $1 AND created_at >= $2
		GROUP BY article_id
	`
	rows, err := s.db.Query(ctx, query, domain.EventPageview, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pageviews: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var id uuid.UUID
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan pageview count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}

// PruneBefore deletes events older than the cutoff and reports how many
// rows were removed. Retention is a policy decision of the cron caller.
func (s *EventStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountBefore reports how many events a prune with the same cutoff would
// remove, for dry runs.
func (s *EventStore) CountBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE created_at < $1`, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
