package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pressdeck/pressdeck/internal/apperr"
	"github.com/pressdeck/pressdeck/internal/domain"
	"github.com/pressdeck/pressdeck/internal/dto"
	"github.com/pressdeck/pressdeck/internal/ranking"
	pgstore "github.com/pressdeck/pressdeck/internal/storage/pg"
	"github.com/pressdeck/pressdeck/pkg/pagination"
)

// ArticleReader is the public read surface of the article store.
type ArticleReader interface {
	ArticleResolver
	ArticleHydrator
	ListPublished(ctx context.Context, f pgstore.ListFilter, offset, limit int) ([]domain.Article, int64, error)
}

type ArticlesRouter struct {
	e        *echo.Echo
	articles ArticleReader
}

func NewArticlesRouter(e *echo.Echo, articles ArticleReader) *ArticlesRouter {
	return &ArticlesRouter{e: e, articles: articles}
}

func (r *ArticlesRouter) Bind() {
	r.e.GET("/v1/articles", r.listHandler)
	r.e.GET("/v1/articles/by-ids", r.byIDsHandler)
	r.e.GET("/v1/articles/:slug", r.detailHandler)
}

func (r *ArticlesRouter) listHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidation("invalid pagination parameters")
	}
	page.Normalize()

	filter := pgstore.ListFilter{
		CategorySlug: c.QueryParam("category"),
		TagSlug:      c.QueryParam("tag"),
	}

	articles, total, err := r.articles.ListPublished(c.Request().Context(), filter, page.Offset(), page.Size)
	if err != nil {
		return err
	}

	result := pagination.NewOffsetResult(dto.NewArticleSummaries(articles), total, page.Page, page.Size)
	return c.JSON(http.StatusOK, result)
}

func (r *ArticlesRouter) detailHandler(c echo.Context) error {
	article, err := r.articles.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleDetail(*article))
}

// byIDsHandler hydrates a client-held identifier list, e.g. a cached search
// result. Order follows the requested order; unknown or unpublished
// identifiers are silently dropped.
func (r *ArticlesRouter) byIDsHandler(c echo.Context) error {
	raw := c.QueryParam("ids")
	if raw == "" {
		return c.JSON(http.StatusOK, []dto.ArticleSummary{})
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	seen := make(map[uuid.UUID]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			return apperr.NewValidationWrap("invalid article id", err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if len(ids) == ranking.MaxSearchResults {
			break
		}
	}

	articles, err := r.articles.ListPublishedByIDs(c.Request().Context(), ids)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewArticleSummaries(articles))
}
