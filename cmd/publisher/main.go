// Publisher takes due scheduled articles live. Run it once from cron, or
// with -interval to keep it running as a poller.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressdeck/pressdeck/internal/editorial"
	"github.com/pressdeck/pressdeck/internal/storage/factory"
	"github.com/pressdeck/pressdeck/internal/storage/pg"
	"github.com/pressdeck/pressdeck/pkg/config/env"
)

type cliConfig struct {
	Interval time.Duration
}

func parseFlags() cliConfig {
	cfg := cliConfig{}
	flag.DurationVar(&cfg.Interval, "interval", 0, "Polling interval; zero runs a single pass and exits")
	flag.Parse()
	return cfg
}

func main() {
	cliCfg := parseFlags()

	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/publisher/.env"); err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.NewConnectionPool(ctx, storageCfg.Pg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	articles := pg.NewArticleRepository(pool)
	indexer, err := factory.NewSearchIndexer(ctx, pool, articles, storageCfg)
	if err != nil {
		slog.Error("Failed to create search indexer", "error", err)
		os.Exit(1)
	}

	workflow := editorial.NewWorkflow(articles, indexer)

	if cliCfg.Interval <= 0 {
		if err := publishPass(ctx, workflow); err != nil {
			os.Exit(1)
		}
		return
	}

	slog.Info("Starting publisher", "interval", cliCfg.Interval)
	ticker := time.NewTicker(cliCfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Publisher stopped")
			return
		case <-ticker.C:
			if err := publishPass(ctx, workflow); err != nil && ctx.Err() != nil {
				return
			}
		}
	}
}

func publishPass(ctx context.Context, workflow *editorial.Workflow) error {
	published, err := workflow.PublishDue(ctx)
	if err != nil {
		slog.Error("Failed to publish due articles", "published", published, "error", err)
		return err
	}
	if published > 0 {
		slog.Info("Published due articles", "published", published)
	}
	return nil
}
