package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pressdeck/pressdeck/internal/apperr"
)

func respondWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	e.GET("/boom", func(echo.Context) error { return err })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return rec
}

func TestGlobalErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.NewValidation("bad input"), http.StatusBadRequest},
		{"not found", apperr.NewNotFound("article"), http.StatusNotFound},
		{"transient", apperr.NewTransient("query", errors.New("refused")), http.StatusServiceUnavailable},
		{"transient timeout", apperr.NewTransient("query", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"echo http error", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := respondWith(t, tc.err)
			if rec.Code != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestGlobalErrorHandler_SeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading article: %w", apperr.NewNotFound("article"))

	rec := respondWith(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for wrapped not-found, got %d", rec.Code)
	}
}
