package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pressdeck/pressdeck/internal/dto"
	"github.com/pressdeck/pressdeck/internal/ranking"
)

// Trender exposes the popularity feeds of the ranking engine.
type Trender interface {
	Trending(ctx context.Context, limit int) ([]uuid.UUID, error)
	TrendingUncached(ctx context.Context) ([]ranking.TrendingEntry, error)
}

type TrendingRouter struct {
	e        *echo.Echo
	engine   Trender
	articles ArticleHydrator
}

func NewTrendingRouter(e *echo.Echo, engine Trender, articles ArticleHydrator) *TrendingRouter {
	return &TrendingRouter{e: e, engine: engine, articles: articles}
}

func (r *TrendingRouter) Bind() {
	r.e.GET("/v1/trending", r.trendingHandler)
	r.e.GET("/v1/editor/trending", r.editorTrendingHandler)
}

func (r *TrendingRouter) trendingHandler(c echo.Context) error {
	limit := parseLimit(c.QueryParam("limit"), ranking.DefaultTrendingLimit)

	ids, err := r.engine.Trending(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	articles, err := r.articles.ListPublishedByIDs(c.Request().Context(), ids)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleSummaries(articles))
}

// editorTrendingHandler bypasses the result cache and includes raw view
// counts, for editorial dashboards.
func (r *TrendingRouter) editorTrendingHandler(c echo.Context) error {
	entries, err := r.engine.TrendingUncached(c.Request().Context())
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	views := make(map[uuid.UUID]int64, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		views[e.ID] = e.Views24h
	}

	articles, err := r.articles.ListPublishedByIDs(c.Request().Context(), ids)
	if err != nil {
		return err
	}

	rows := make([]dto.TrendingRow, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, dto.TrendingRow{
			ArticleSummary: dto.NewArticleSummary(a),
			Views24h:       views[a.ID],
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// parseLimit is deliberately lenient: malformed or non-positive values fall
// back to the default instead of failing the request.
func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
