package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus is the editorial lifecycle state of an article.
// Only published articles are visible to readers and eligible for ranking.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusInReview  ArticleStatus = "IN_REVIEW"
	StatusScheduled ArticleStatus = "SCHEDULED"
	StatusPublished ArticleStatus = "PUBLISHED"
	StatusArchived  ArticleStatus = "ARCHIVED"
)

// Rankable reports whether articles in this status may appear in search or
// trending results.
func (s ArticleStatus) Rankable() bool {
	return s == StatusPublished
}

type Article struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Dek   string    `json:"dek,omitempty"`
	Body  string    `json:"body,omitempty"`

	Status ArticleStatus `json:"status"`

	// PublishAt is the scheduled publication time; PublishedAt is set once
	// the article actually goes live.
	PublishAt   *time.Time `json:"publishAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Category *Category `json:"category,omitempty"`
	Series   *Series   `json:"series,omitempty"`
	Authors  []Author  `json:"authors,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`

	IsEditorPick bool `json:"isEditorPick"`
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}

type Series struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}

type Author struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Bio  string    `json:"bio,omitempty"`
}

type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// VersionKind records which workflow transition produced a snapshot.
type VersionKind string

const (
	VersionSubmit   VersionKind = "SUBMIT"
	VersionApprove  VersionKind = "APPROVE"
	VersionSchedule VersionKind = "SCHEDULE"
	VersionPublish  VersionKind = "PUBLISH"
	VersionManual   VersionKind = "MANUAL"
)

// ArticleVersion is an immutable snapshot of an article's content taken at a
// workflow transition.
type ArticleVersion struct {
	ID        uuid.UUID   `json:"id"`
	ArticleID uuid.UUID   `json:"articleId"`
	Kind      VersionKind `json:"kind"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Dek       string      `json:"dek,omitempty"`
	Body      string      `json:"body,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
