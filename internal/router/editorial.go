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

// ArticleWriter is the editorial write surface of the article store.
type ArticleWriter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	Create(ctx context.Context, a *domain.Article) error
	Update(ctx context.Context, a *domain.Article) error
}

// Lifecycle drives workflow transitions.
type Lifecycle interface {
	Submit(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	Schedule(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Article, error)
	PublishNow(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

// Reindexer rebuilds an article's search document after a content edit.
type Reindexer interface {
	Reindex(ctx context.Context, articleID uuid.UUID) error
}

type EditorialRouter struct {
	e        *echo.Echo
	articles ArticleWriter
	workflow Lifecycle
	index    Reindexer
}

func NewEditorialRouter(e *echo.Echo, articles ArticleWriter, workflow Lifecycle, index Reindexer) *EditorialRouter {
	return &EditorialRouter{e: e, articles: articles, workflow: workflow, index: index}
}

func (r *EditorialRouter) Bind() {
	g := r.e.Group("/v1/editor/articles")
	g.POST("", r.createHandler)
	g.PUT("/:id", r.updateHandler)
	g.GET("/:id", r.getHandler)
	g.POST("/:id/submit", r.submitHandler)
	g.POST("/:id/approve", r.approveHandler)
	g.POST("/:id/schedule", r.scheduleHandler)
	g.POST("/:id/publish", r.publishHandler)
}

type articleRequest struct {
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Dek          string      `json:"dek"`
	Body         string      `json:"body"`
	CategoryID   *uuid.UUID  `json:"categoryId"`
	SeriesID     *uuid.UUID  `json:"seriesId"`
	AuthorIDs    []uuid.UUID `json:"authorIds"`
	TagIDs       []uuid.UUID `json:"tagIds"`
	IsEditorPick bool        `json:"isEditorPick"`
}

func (req *articleRequest) validate() error {
	if req.Title == "" {
		return apperr.NewValidation("title is required")
	}
	if req.Slug == "" {
		return apperr.NewValidation("slug is required")
	}
	return nil
}

func (req *articleRequest) apply(a *domain.Article) {
	a.Title = req.Title
	a.Slug = req.Slug
	a.Dek = req.Dek
	a.Body = req.Body
	a.IsEditorPick = req.IsEditorPick

	a.Category = nil
	if req.CategoryID != nil {
		a.Category = &domain.Category{ID: *req.CategoryID}
	}
	a.Series = nil
	if req.SeriesID != nil {
		a.Series = &domain.Series{ID: *req.SeriesID}
	}
	a.Authors = a.Authors[:0]
	for _, id := range req.AuthorIDs {
		a.Authors = append(a.Authors, domain.Author{ID: id})
	}
	a.Tags = a.Tags[:0]
	for _, id := range req.TagIDs {
		a.Tags = append(a.Tags, domain.Tag{ID: id})
	}
}

func (r *EditorialRouter) createHandler(c echo.Context) error {
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidation("invalid article payload")
	}
	if err := req.validate(); err != nil {
		return err
	}

	article := &domain.Article{Status: domain.StatusDraft}
	req.apply(article)
	if err := r.articles.Create(c.Request().Context(), article); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, article)
}

// updateHandler edits content in any state. Edits to a live article rebuild
// its search document so ranking never serves a stale vector.
func (r *EditorialRouter) updateHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidation("invalid article payload")
	}
	if err := req.validate(); err != nil {
		return err
	}

	article, err := r.articles.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	req.apply(article)
	if err := r.articles.Update(c.Request().Context(), article); err != nil {
		return err
	}

	if article.Status.Rankable() {
		if err := r.index.Reindex(c.Request().Context(), article.ID); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, article)
}

func (r *EditorialRouter) getHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	article, err := r.articles.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (r *EditorialRouter) submitHandler(c echo.Context) error {
	return r.transition(c, r.workflow.Submit)
}

func (r *EditorialRouter) approveHandler(c echo.Context) error {
	return r.transition(c, r.workflow.Approve)
}

func (r *EditorialRouter) publishHandler(c echo.Context) error {
	return r.transition(c, r.workflow.PublishNow)
}

type scheduleRequest struct {
	PublishAt time.Time `json:"publishAt"`
}

func (r *EditorialRouter) scheduleHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidation("invalid schedule payload")
	}
	if req.PublishAt.IsZero() {
		return apperr.NewValidation("publishAt is required")
	}

	article, err := r.workflow.Schedule(c.Request().Context(), id, req.PublishAt.UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (r *EditorialRouter) transition(c echo.Context, fn func(context.Context, uuid.UUID) (*domain.Article, error)) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	article, err := fn(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid article id", err)
	}
	return id, nil
}
