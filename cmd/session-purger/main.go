package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/devsuperior/dscommerce/internal/app/api"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, instruments, flush, err := api.Bootstrap(ctx, "dscommerce-session-purger")
	if err != nil {
		log.Fatalf("session purger: %v", err)
	}
	defer flush()
	logger := instruments.Logger

	// Seeding belongs to the API process.
	cfg.SeedData = false
	stores, err := api.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close()
	if stores.Purger == nil {
		logger.Info("sessions expire on their own, nothing to purge", slog.String("driver", stores.Driver))
		return
	}
	if err := api.PurgeOnce(ctx, stores.Purger, logger); err != nil {
		logger.Error("session purge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
