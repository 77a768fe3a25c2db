package es

import (
	"time"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// ArticleDocument is the indexed shape of a published article. Only
// published articles live in the index; unpublishing removes the document.
type ArticleDocument struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Dek          string     `json:"dek"`
	Body         string     `json:"body"`
	Tags         []string   `json:"tags"`
	IsEditorPick bool       `json:"is_editor_pick"`
	PublishedAt  *time.Time `json:"published_at"`
	IndexedAt    time.Time  `json:"indexed_at"`
}

func mapToDocument(a domain.Article) ArticleDocument {
	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = t.Name
	}
	return ArticleDocument{
		ID:           a.ID.String(),
		Title:        a.Title,
		Dek:          a.Dek,
		Body:         a.Body,
		Tags:         tags,
		IsEditorPick: a.IsEditorPick,
		PublishedAt:  a.PublishedAt,
		IndexedAt:    time.Now(),
	}
}
