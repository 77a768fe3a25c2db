package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/domain"
)

// psql builds queries with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ArticleRepository reads and writes article records. Ranking only ever
// reads from it; the editorial workflow is the sole writer.
type ArticleRepository struct {
	db *pgxpool.Pool
}

func NewArticleRepository(pool *ConnectionPool) *ArticleRepository {
	return &ArticleRepository{db: pool.conn}
}

// ListFilter narrows the public article listing.
type ListFilter struct {
	CategorySlug string
	TagSlug      string
}

const articleColumns = `
	a.id, a.title, a.slug, a.dek, a.body_md, a.status,
	a.publish_at, a.published_at, a.updated_at, a.is_editor_pick,
	c.id, c.name, c.slug,
	s.id, s.name, s.slug
`

const articleJoins = `
	LEFT JOIN categories c ON c.id = a.category_id
	LEFT JOIN series s ON s.id = a.series_id
`

func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return r.getOne(ctx, "a.slug = $1", slug)
}

// GetPublishedBySlug resolves a slug on the public read path. Articles in
// any other status are reported as not found, never leaked.
func (r *ArticleRepository) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	a, err := r.getOne(ctx, "a.slug = $1", slug)
	if err != nil {
		return nil, err
	}
	if !a.Status.Rankable() {
		return nil, apperr.NewNotFound("article")
	}
	return a, nil
}

func (r *ArticleRepository) getOne(ctx context.Context, where string, arg any) (*domain.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles a %s WHERE %s`, articleColumns, articleJoins, where)

	row := r.db.QueryRow(ctx, query, arg)
	a, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("article")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	if err := r.attachRelations(ctx, []*domain.Article{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// ListPublished returns published articles newest first, optionally
// filtered by category or tag slug.
func (r *ArticleRepository) ListPublished(ctx context.Context, f ListFilter, offset, limit int) ([]domain.Article, int64, error) {
	base := psql.Select().From("articles a").
		LeftJoin("categories c ON c.id = a.category_id").
		LeftJoin("series s ON s.id = a.series_id").
		Where(sq.Eq{"a.status": domain.StatusPublished})

	if f.CategorySlug != "" {
		base = base.Where("c.slug = ?", f.CategorySlug)
	}
	if f.TagSlug != "" {
		base = base.Where(`EXISTS (
			SELECT 1 FROM article_tags at
			JOIN tags t ON t.id = at.tag_id
			WHERE at.article_id = a.id AND t.slug = ?
		)`, f.TagSlug)
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	listSQL, listArgs, err := base.Column(articleColumns).
		OrderBy("a.published_at DESC NULLS LAST", "a.updated_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	articles, err := r.queryArticles(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListPublishedByIDs hydrates ranked identifier lists. The returned order
// follows the input order exactly (the ranking order is authoritative);
// identifiers that are missing or no longer published are skipped.
func (r *ArticleRepository) ListPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM articles a %s
		WHERE a.id = ANY($1) AND a.status = $2
	`, articleColumns, articleJoins)

	articles, err := r.queryArticles(ctx, query, ids, domain.StatusPublished)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]domain.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	ordered := make([]domain.Article, 0, len(articles))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

// ListDue returns scheduled articles whose publish time has passed.
func (r *ArticleRepository) ListDue(ctx context.Context, now time.Time) ([]domain.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a %s
		WHERE a.status = $1 AND a.publish_at IS NOT NULL AND a.publish_at <= $2
		ORDER BY a.publish_at
	`, articleColumns, articleJoins)

	return r.queryArticles(ctx, query, domain.StatusScheduled, now)
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = domain.StatusDraft
	}

	cmd := `
		INSERT INTO articles (id, title, slug, dek, body_md, status, publish_at, published_at, category_id, series_id, is_editor_pick, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
	`
	_, err := r.db.Exec(ctx, cmd,
		a.ID, a.Title, a.Slug, a.Dek, a.Body, a.Status,
		a.PublishAt, a.PublishedAt, categoryID(a), seriesID(a), a.IsEditorPick,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return r.replaceRelations(ctx, a)
}

func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	cmd := `
		UPDATE articles
		SET title = $2, slug = $3, dek = $4, body_md = $5,
		    category_id = $6, series_id = $7, is_editor_pick = $8, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, cmd,
		a.ID, a.Title, a.Slug, a.Dek, a.Body,
		categoryID(a), seriesID(a), a.IsEditorPick,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("article")
	}
	return r.replaceRelations(ctx, a)
}

// SetWorkflowState persists a status transition together with its
// scheduling timestamps.
func (r *ArticleRepository) SetWorkflowState(ctx context.Context, id uuid.UUID, status domain.ArticleStatus, publishAt, publishedAt *time.Time) error {
	cmd := `
		UPDATE articles
		SET status = $2, publish_at = $3, published_at = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, cmd, id, status, publishAt, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("article")
	}
	return nil
}

// SaveVersion appends an immutable content snapshot.
func (r *ArticleRepository) SaveVersion(ctx context.Context, v domain.ArticleVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cmd := `
		INSERT INTO article_versions (id, article_id, kind, title, slug, dek, body_md, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`
	if _, err := r.db.Exec(ctx, cmd, v.ID, v.ArticleID, v.Kind, v.Title, v.Slug, v.Dek, v.Body); err != nil {
		return fmt.Errorf("failed to insert article version: %w", err)
	}
	return nil
}

func (r *ArticleRepository) queryArticles(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.attachRelations(ctx, out); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, len(out))
	for i, a := range out {
		articles[i] = *a
	}
	return articles, nil
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var (
		a                domain.Article
		catID, serID     *uuid.UUID
		catName, catSlug *string
		serName, serSlug *string
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Dek, &a.Body, &a.Status,
		&a.PublishAt, &a.PublishedAt, &a.UpdatedAt, &a.IsEditorPick,
		&catID, &catName, &catSlug,
		&serID, &serName, &serSlug,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		a.Category = &domain.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	if serID != nil {
		a.Series = &domain.Series{ID: *serID, Name: *serName, Slug: *serSlug}
	}
	return &a, nil
}

// attachRelations batch-loads authors and tags for a result set.
func (r *ArticleRepository) attachRelations(ctx context.Context, articles []*domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(articles))
	byID := make(map[uuid.UUID]*domain.Article, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	authorSQL := `
		SELECT aa.article_id, au.id, au.name, au.slug
		FROM article_authors aa
		JOIN authors au ON au.id = aa.author_id
		WHERE aa.article_id = ANY($1)
		ORDER BY au.name
	`
	rows, err := r.db.Query(ctx, authorSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var articleID uuid.UUID
		var au domain.Author
		if err := rows.Scan(&articleID, &au.ID, &au.Name, &au.Slug); err != nil {
			return fmt.Errorf("failed to scan author: %w", err)
		}
		byID[articleID].Authors = append(byID[articleID].Authors, au)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating authors: %w", err)
	}

	tagSQL := `
		SELECT at.article_id, t.id, t.name, t.slug
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id = ANY($1)
		ORDER BY t.name
	`
	tagRows, err := r.db.Query(ctx, tagSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to query tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var articleID uuid.UUID
		var t domain.Tag
		if err := tagRows.Scan(&articleID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		byID[articleID].Tags = append(byID[articleID].Tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("error iterating tags: %w", err)
	}
	return nil
}

func (r *ArticleRepository) replaceRelations(ctx context.Context, a *domain.Article) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM article_authors WHERE article_id = $1`, a.ID); err != nil {
		return fmt.Errorf("failed to clear article authors: %w", err)
	}
	for _, au := range a.Authors {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO article_authors (article_id, author_id) VALUES ($1, $2)`, a.ID, au.ID); err != nil {
			return fmt.Errorf("failed to link author: %w", err)
		}
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM article_tags WHERE article_id = $1`, a.ID); err != nil {
		return fmt.Errorf("failed to clear article tags: %w", err)
	}
	for _, t := range a.Tags {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)`, a.ID, t.ID); err != nil {
			return fmt.Errorf("failed to link tag: %w", err)
		}
	}
	return nil
}

func categoryID(a *domain.Article) *uuid.UUID {
	if a.Category == nil {
		return nil
	}
	return &a.Category.ID
}

func seriesID(a *domain.Article) *uuid.UUID {
	if a.Series == nil {
		return nil
	}
	return &a.Series.ID
}
