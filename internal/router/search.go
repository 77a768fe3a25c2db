package router

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pressdeck/pressdeck/internal/domain"
	"github.com/pressdeck/pressdeck/internal/dto"
)

// Ranker is the read side of the rank fusion engine.
type Ranker interface {
	Search(ctx context.Context, query string) ([]uuid.UUID, error)
}

// ArticleHydrator turns an ordered identifier list into article records,
// preserving the input order.
type ArticleHydrator interface {
	ListPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Article, error)
}

type SearchRouter struct {
	e        *echo.Echo
	engine   Ranker
	articles ArticleHydrator
}

func NewSearchRouter(e *echo.Echo, engine Ranker, articles ArticleHydrator) *SearchRouter {
	return &SearchRouter{e: e, engine: engine, articles: articles}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/v1/search", r.searchHandler)
}

// searchHandler serves ranked search results. An empty query is a valid
// request with an empty result; infrastructure failures surface as errors
// through the global handler so callers can tell the two apart.
func (r *SearchRouter) searchHandler(c echo.Context) error {
	query := c.QueryParam("q")

	ids, err := r.engine.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}

	articles, err := r.articles.ListPublishedByIDs(c.Request().Context(), ids)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleSummaries(articles))
}
