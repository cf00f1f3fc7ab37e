package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/devsuperior/dscommerce/internal/app/api"
	platformtemporal "github.com/devsuperior/dscommerce/internal/platform/temporal"
	orderactivities "github.com/devsuperior/dscommerce/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/devsuperior/dscommerce/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	cfg, instruments, flush, err := api.Bootstrap(ctx, "dscommerce-worker")
	if err != nil {
		log.Fatalf("dscommerce worker: %v", err)
	}
	defer flush()
	logger := instruments.Logger

	stores, err := api.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close()
	if stores.Driver == api.DriverMemory {
		logger.Warn("worker persists orders in memory, the API will not see them")
	}

	events, closeEvents := api.OpenEvents(cfg, logger)
	defer closeEvents()

	// Publishing runs as its own activity, so the persisting service emits nothing.
	services, err := api.BuildServices(cfg, stores, instruments, nil)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	faults := api.OrderFaults()
	activities := orderactivities.NewActivities(services.Orders, stores.Orders, events, faults)

	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-worker"), logger)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, cfg.TemporalTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(activities.PublishOrderPlaced, activity.RegisterOptions{Name: orderactivities.PublishOrderPlacedActivityName})

	logger.Info("worker listening", slog.String("taskQueue", cfg.TemporalTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
