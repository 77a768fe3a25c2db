// Prune_events drops interaction events past the retention window. Run it
// from cron; -dry-run reports what a real run would delete.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pressdeck/pressdeck/internal/storage/factory"
	"github.com/pressdeck/pressdeck/internal/storage/pg"
	"github.com/pressdeck/pressdeck/pkg/config/env"
)

type cliConfig struct {
	Days   int
	DryRun bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}
	flag.IntVar(&cfg.Days, "days", 90, "Retention window in days; events older than this are deleted")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "Report the number of events that would be deleted without deleting")
	flag.Parse()
	return cfg
}

func main() {
	cliCfg := parseFlags()
	if cliCfg.Days <= 0 {
		slog.Error("Retention window must be positive", "days", cliCfg.Days)
		os.Exit(1)
	}

	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/prune_events/.env"); err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, storageCfg.Pg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	events := pg.NewEventStore(pool)
	cutoff := time.Now().UTC().AddDate(0, 0, -cliCfg.Days)

	if cliCfg.DryRun {
		n, err := events.CountBefore(ctx, cutoff)
		if err != nil {
			slog.Error("Failed to count prunable events", "error", err)
			os.Exit(1)
		}
		slog.Info("Dry run", "would_delete", n, "cutoff", cutoff)
		return
	}

	deleted, err := events.PruneBefore(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to prune events", "error", err)
		os.Exit(1)
	}
	slog.Info("Pruned events", "deleted", deleted, "cutoff", cutoff)
}
