package factory

import (
	"fmt"
	"os"
	"strings"

	"github.com/pressdeck/pressdeck/internal/storage/es"
	"github.com/pressdeck/pressdeck/internal/storage/pg"
)

// IndexType selects the content index backend.
type IndexType string

const (
	IndexPG IndexType = "pg"
	IndexES IndexType = "es"
)

// CacheType selects the ranked-result cache backend.
type CacheType string

const (
	CacheMemory CacheType = "memory"
	CacheRedis  CacheType = "redis"
)

// Config describes the storage wiring of one process. Postgres is always
// the store of record; the content index and result cache are swappable.
type Config struct {
	Pg    pg.PoolConfig
	Index IndexType
	Es    *es.ClientConfig

	Cache     CacheType
	RedisAddr string
	RedisDB   int
}

func LoadEnv() (*Config, error) {
	connStr := os.Getenv("PG_CONNECTION_STRING")
	if connStr == "" {
		return nil, fmt.Errorf("PG_CONNECTION_STRING environment variable is not set")
	}

	index := IndexType(os.Getenv("INDEX_TYPE"))
	if index == "" {
		index = IndexPG
	}
	if index != IndexPG && index != IndexES {
		return nil, fmt.Errorf("invalid INDEX_TYPE %q, expected one of %v", index, []IndexType{IndexPG, IndexES})
	}

	var esCfg *es.ClientConfig
	if index == IndexES {
		esCfg = &es.ClientConfig{
			Addresses: strings.Split(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(esCfg.Addresses) == 0 || esCfg.Addresses[0] == "" {
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}
	}

	cacheType := CacheType(os.Getenv("CACHE_TYPE"))
	if cacheType == "" {
		cacheType = CacheMemory
	}
	if cacheType != CacheMemory && cacheType != CacheRedis {
		return nil, fmt.Errorf("invalid CACHE_TYPE %q, expected one of %v", cacheType, []CacheType{CacheMemory, CacheRedis})
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if cacheType == CacheRedis && redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable is not set")
	}

	return &Config{
		Pg:        pg.PoolConfig{ConnStr: connStr},
		Index:     index,
		Es:        esCfg,
		Cache:     cacheType,
		RedisAddr: redisAddr,
	}, nil
}
