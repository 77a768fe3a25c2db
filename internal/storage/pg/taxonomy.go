package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// TaxonomyRepository serves the small lookup tables: categories, series,
// authors and tags.
type TaxonomyRepository struct {
	db *pgxpool.Pool
}

func NewTaxonomyRepository(pool *ConnectionPool) *TaxonomyRepository {
	return &TaxonomyRepository{db: pool.conn}
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *TaxonomyRepository) ListSeries(ctx context.Context) ([]domain.Series, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, description FROM series ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	var out []domain.Series
	for rows.Next() {
		var s domain.Series
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Description); err != nil {
			return nil, fmt.Errorf("failed to scan series: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *TaxonomyRepository) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, bio FROM authors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var out []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Bio); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *TaxonomyRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var out []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertCategory inserts or refreshes a category by slug, used by the
// content seeder.
func (r *TaxonomyRepository) UpsertCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cmd := `
		INSERT INTO categories (id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, cmd, c.ID, c.Name, c.Slug, c.Description).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

func (r *TaxonomyRepository) UpsertSeries(ctx context.Context, s *domain.Series) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cmd := `
		INSERT INTO series (id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, cmd, s.ID, s.Name, s.Slug, s.Description).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to upsert series: %w", err)
	}
	return nil
}

func (r *TaxonomyRepository) UpsertAuthor(ctx context.Context, a *domain.Author) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cmd := `
		INSERT INTO authors (id, name, slug, bio)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, bio = EXCLUDED.bio
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, cmd, a.ID, a.Name, a.Slug, a.Bio).Scan(&a.ID); err != nil {
		return fmt.Errorf("failed to upsert author: %w", err)
	}
	return nil
}

func (r *TaxonomyRepository) UpsertTag(ctx context.Context, t *domain.Tag) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cmd := `
		INSERT INTO tags (id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, cmd, t.ID, t.Name, t.Slug).Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}
	return nil
}
