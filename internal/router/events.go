package router

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/domain"
)

// ArticleResolver resolves a public slug to its published article.
type ArticleResolver interface {
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error)
}

// EventRecorder persists engagement events.
type EventRecorder interface {
	Record(ctx context.Context, e domain.Event) error
}

type EventsRouter struct {
	e        *echo.Echo
	articles ArticleResolver
	events   EventRecorder
}

func NewEventsRouter(e *echo.Echo, articles ArticleResolver, events EventRecorder) *EventsRouter {
	return &EventsRouter{e: e, articles: articles, events: events}
}

func (r *EventsRouter) Bind() {
	r.e.POST("/v1/events/pageview", r.pageviewHandler)
	r.e.POST("/v1/events/read", r.readHandler)
}

type pageviewRequest struct {
	Slug       string `json:"slug"`
	Path       string `json:"path"`
	Referrer   string `json:"referrer"`
	DurationMS *int   `json:"durationMs"`
}

type readRequest struct {
	Slug       string   `json:"slug"`
	ReadRatio  *float64 `json:"readRatio"`
	DurationMS *int     `json:"durationMs"`
}

func (r *EventsRouter) pageviewHandler(c echo.Context) error {
	var req pageviewRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidation("invalid pageview payload")
	}
	if req.Slug == "" {
		return apperr.NewValidation("slug is required")
	}
	if req.DurationMS != nil && *req.DurationMS < 0 {
		return apperr.NewValidation("durationMs must not be negative")
	}

	article, err := r.articles.GetPublishedBySlug(c.Request().Context(), req.Slug)
	if err != nil {
		return err
	}

	event := domain.Event{
		ID:         uuid.New(),
		Kind:       domain.EventPageview,
		ArticleID:  article.ID,
		Path:       req.Path,
		Referrer:   req.Referrer,
		UserAgent:  c.Request().UserAgent(),
		DurationMS: req.DurationMS,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.events.Record(c.Request().Context(), event); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]bool{"ok": true})
}

func (r *EventsRouter) readHandler(c echo.Context) error {
	var req readRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidation("invalid read payload")
	}
	if req.Slug == "" {
		return apperr.NewValidation("slug is required")
	}
	if req.ReadRatio == nil {
		return apperr.NewValidation("readRatio is required")
	}
	if *req.ReadRatio < 0 || *req.ReadRatio > 1 {
		return apperr.NewValidation("readRatio must be between 0 and 1")
	}
	if req.DurationMS != nil && *req.DurationMS < 0 {
		return apperr.NewValidation("durationMs must not be negative")
	}

	article, err := r.articles.GetPublishedBySlug(c.Request().Context(), req.Slug)
	if err != nil {
		return err
	}

	event := domain.Event{
		ID:         uuid.New(),
		Kind:       domain.EventRead,
		ArticleID:  article.ID,
		UserAgent:  c.Request().UserAgent(),
		ReadRatio:  req.ReadRatio,
		DurationMS: req.DurationMS,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.events.Record(c.Request().Context(), event); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]bool{"ok": true})
}
