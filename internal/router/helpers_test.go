package router_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pressdeck/pressdeck/internal/domain"
)

func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}

// fakeHydrator returns the subset of known published articles in the
// requested order, mirroring the real repository contract.
type fakeHydrator struct {
	articles map[uuid.UUID]domain.Article
}

func (f *fakeHydrator) ListPublishedByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := f.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
