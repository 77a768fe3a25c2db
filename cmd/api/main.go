package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pressdeck/pressdeck/internal/editorial"
	"github.com/pressdeck/pressdeck/internal/metrics"
	"github.com/pressdeck/pressdeck/internal/ranking"
	"github.com/pressdeck/pressdeck/internal/router"
	"github.com/pressdeck/pressdeck/internal/server"
	"github.com/pressdeck/pressdeck/internal/storage/factory"
	"github.com/pressdeck/pressdeck/internal/storage/pg"
)

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, cfg.StorageConfig.Pg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	articles := pg.NewArticleRepository(pool)
	events := pg.NewEventStore(pool)
	taxonomy := pg.NewTaxonomyRepository(pool)

	contentIndex, err := factory.NewContentIndex(pool, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create content index", "error", err)
		os.Exit(1)
	}

	searchIndexer, err := factory.NewSearchIndexer(ctx, pool, articles, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create search indexer", "error", err)
		os.Exit(1)
	}

	results, err := factory.NewResultCache(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create result cache", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rankingMetrics := metrics.NewRanking(registry)

	engine := ranking.NewEngine(
		ranking.NewAggregator(contentIndex, events),
		results,
		ranking.WithMetrics(rankingMetrics),
	)
	workflow := editorial.NewWorkflow(articles, searchIndexer)

	e := echo.New()
	e.HideBanner = true
	s := server.NewServer(e, sCfg, pg.NewHealthChecker(pool))
	s.ExposeMetrics(registry)

	router.NewSearchRouter(e, engine, articles).Bind()
	router.NewTrendingRouter(e, engine, articles).Bind()
	router.NewArticlesRouter(e, articles).Bind()
	router.NewEventsRouter(e, articles, events).Bind()
	router.NewTaxonomyRouter(e, taxonomy).Bind()
	router.NewEditorialRouter(e, articles, workflow, searchIndexer).Bind()

	slog.Info("Starting API", "port", sCfg.Port, "index", cfg.StorageConfig.Index, "cache", cfg.StorageConfig.Cache)
	if err := s.Start(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
