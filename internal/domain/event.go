package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes reader interaction events.
type EventKind string

const (
	EventPageview EventKind = "pageview"
	EventRead     EventKind = "read"
)

// Event is an append-only interaction record. Events are never updated;
// old rows are dropped by the retention pruner.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Kind      EventKind `json:"kind"`
	ArticleID uuid.UUID `json:"articleId"`

	Path      string `json:"path,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	ReadRatio  *float64 `json:"readRatio,omitempty"`
	DurationMS *int     `json:"durationMs,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
