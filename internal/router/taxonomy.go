package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pressdeck/pressdeck/internal/domain"
)

// TaxonomyReader lists the lookup tables embedded in article responses.
type TaxonomyReader interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListSeries(ctx context.Context) ([]domain.Series, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

type TaxonomyRouter struct {
	e        *echo.Echo
	taxonomy TaxonomyReader
}

func NewTaxonomyRouter(e *echo.Echo, taxonomy TaxonomyReader) *TaxonomyRouter {
	return &TaxonomyRouter{e: e, taxonomy: taxonomy}
}

func (r *TaxonomyRouter) Bind() {
	r.e.GET("/v1/categories", r.categoriesHandler)
	r.e.GET("/v1/series", r.seriesHandler)
	r.e.GET("/v1/authors", r.authorsHandler)
	r.e.GET("/v1/tags", r.tagsHandler)
}

func (r *TaxonomyRouter) categoriesHandler(c echo.Context) error {
	categories, err := r.taxonomy.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (r *TaxonomyRouter) seriesHandler(c echo.Context) error {
	series, err := r.taxonomy.ListSeries(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series)
}

func (r *TaxonomyRouter) authorsHandler(c echo.Context) error {
	authors, err := r.taxonomy.ListAuthors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}

func (r *TaxonomyRouter) tagsHandler(c echo.Context) error {
	tags, err := r.taxonomy.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}
