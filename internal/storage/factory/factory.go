package factory

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pressdeck/pressdeck/internal/cache"
	"github.com/pressdeck/pressdeck/internal/editorial"
	"github.com/pressdeck/pressdeck/internal/ranking"
	"github.com/pressdeck/pressdeck/internal/storage/es"
	"github.com/pressdeck/pressdeck/internal/storage/pg"
)

// NewContentIndex creates the ranking signal source for the configured
// index backend.
func NewContentIndex(pool *pg.ConnectionPool, cfg *Config) (ranking.ContentIndex, error) {
	switch cfg.Index {
	case IndexPG:
		return pg.NewSignalReader(pool), nil

	case IndexES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("elasticsearch configuration is missing")
		}
		return es.NewSignalReader(*cfg.Es)

	default:
		return nil, fmt.Errorf("unsupported index type: %s", cfg.Index)
	}
}

// NewSearchIndexer creates the index maintenance side for the configured
// backend. The workflow calls it on every transition that changes what
// readers can see.
func NewSearchIndexer(ctx context.Context, pool *pg.ConnectionPool, articles *pg.ArticleRepository, cfg *Config) (editorial.SearchIndexer, error) {
	switch cfg.Index {
	case IndexPG:
		return pg.NewIndexer(pool), nil

	case IndexES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("elasticsearch configuration is missing")
		}
		indexer, err := es.NewIndexer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return es.NewReindexer(articles, indexer), nil

	default:
		return nil, fmt.Errorf("unsupported index type: %s", cfg.Index)
	}
}

// NewResultCache creates the ranked-result cache for the configured
// backend.
func NewResultCache(ctx context.Context, cfg *Config) (cache.ResultCache, error) {
	switch cfg.Cache {
	case CacheMemory:
		return cache.NewMemory(), nil

	case CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		c := cache.NewRedis(client)
		if err := c.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Cache)
	}
}
