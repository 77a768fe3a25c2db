package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// ArticleSummary is the read-model shape returned by the listing, search
// and trending endpoints. Response order is authoritative; callers must not
// re-sort.
type ArticleSummary struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Dek         string        `json:"dek,omitempty"`
	Category    *TaxonomyRef  `json:"category,omitempty"`
	Series      *TaxonomyRef  `json:"series,omitempty"`
	Authors     []TaxonomyRef `json:"authors"`
	Tags        []TaxonomyRef `json:"tags"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
}

// TaxonomyRef is the compact name+slug reference used for embedded
// category, series, author and tag records.
type TaxonomyRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewArticleSummary(a domain.Article) ArticleSummary {
	s := ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Dek:         a.Dek,
		PublishedAt: a.PublishedAt,
		Authors:     make([]TaxonomyRef, 0, len(a.Authors)),
		Tags:        make([]TaxonomyRef, 0, len(a.Tags)),
	}
	if a.Category != nil {
		s.Category = &TaxonomyRef{Name: a.Category.Name, Slug: a.Category.Slug}
	}
	if a.Series != nil {
		s.Series = &TaxonomyRef{Name: a.Series.Name, Slug: a.Series.Slug}
	}
	for _, au := range a.Authors {
		s.Authors = append(s.Authors, TaxonomyRef{Name: au.Name, Slug: au.Slug})
	}
	for _, t := range a.Tags {
		s.Tags = append(s.Tags, TaxonomyRef{Name: t.Name, Slug: t.Slug})
	}
	return s
}

// ArticleDetail is the single-article shape with the full body included.
type ArticleDetail struct {
	ArticleSummary
	Body string `json:"body"`
}

func NewArticleDetail(a domain.Article) ArticleDetail {
	return ArticleDetail{
		ArticleSummary: NewArticleSummary(a),
		Body:           a.Body,
	}
}

func NewArticleSummaries(articles []domain.Article) []ArticleSummary {
	out := make([]ArticleSummary, len(articles))
	for i, a := range articles {
		out[i] = NewArticleSummary(a)
	}
	return out
}
