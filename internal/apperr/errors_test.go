package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pressdeck/pressdeck/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("slug is required")

	if err.Error() != "slug is required" {
		t.Errorf("expected 'slug is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid article id", inner)

	if err.Error() != "invalid article id: parse failed" {
		t.Errorf("expected 'invalid article id: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("readRatio must be between 0 and 1")

	wrapped := fmt.Errorf("failed to record event: %w", original)
	doubleWrapped := fmt.Errorf("handler error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "readRatio must be between 0 and 1" {
		t.Errorf("unexpected message %q", ve.Message)
	}
}

func TestNotFoundError(t *testing.T) {
	err := apperr.NewNotFound("article")

	if err.Error() != "article not found" {
		t.Errorf("expected 'article not found', got %q", err.Error())
	}

	wrapped := fmt.Errorf("failed to resolve slug: %w", err)
	var nf *apperr.NotFoundError
	if !errors.As(wrapped, &nf) {
		t.Fatal("errors.As should find NotFoundError through wrapping")
	}
	if nf.Resource != "article" {
		t.Errorf("expected resource 'article', got %q", nf.Resource)
	}
}

func TestTransientError_KeepsCauseVisible(t *testing.T) {
	err := apperr.NewTransient("collecting ranking signals", context.DeadlineExceeded)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to see the deadline through the transient wrapper")
	}
	if err.Error() != "collecting ranking signals: context deadline exceeded" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestTransientError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var te *apperr.TransientError
	if errors.As(wrapped, &te) {
		t.Fatal("errors.As should NOT find TransientError in plain error chain")
	}
}
