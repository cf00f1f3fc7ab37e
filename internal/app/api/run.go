package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	dscommerceserver "github.com/devsuperior/dscommerce/go"
	kafkapub "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/messaging/kafka"
	"github.com/devsuperior/dscommerce/internal/domains/orders/adapters/workflows"
	ordersports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	"github.com/devsuperior/dscommerce/internal/platform/kafka"
	"github.com/devsuperior/dscommerce/internal/platform/observability"
	platformtemporal "github.com/devsuperior/dscommerce/internal/platform/temporal"
)

const serviceName = "dscommerce-api"

// Bootstrap loads configuration and starts telemetry for a process.
// The returned func flushes telemetry and must be called on exit.
func Bootstrap(ctx context.Context, service string) (Config, *observability.Instruments, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Config{}, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := observability.Init(ctx, observability.Config{
		ServiceName:  service,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return Config{}, nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	flush := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}
	return cfg, instruments, flush, nil
}

// OpenEvents returns the Kafka publisher for order events, or a no-op
// publisher when no brokers are configured.
func OpenEvents(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	writer := kafka.NewWriter(kafka.Config{Brokers: kafka.ParseBrokers(cfg.KafkaBrokers), Topic: cfg.KafkaTopic}, logger)
	if writer == nil {
		return ordersports.NoopEventPublisher, func() {}
	}
	logger.Info("order events published to kafka", slog.String("topic", writer.Topic))
	return kafkapub.NewPublisher(writer), func() {
		if err := writer.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}

// Run boots the dscommerce HTTP API and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, instruments, flush, err := Bootstrap(ctx, serviceName)
	if err != nil {
		return err
	}
	defer flush()
	logger := instruments.Logger

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer stores.Close()

	events, closeEvents := OpenEvents(cfg, logger)
	defer closeEvents()

	services, err := BuildServices(cfg, stores, instruments, events)
	if err != nil {
		return err
	}

	var orderWorkflows ordersports.WorkflowOrchestrator = workflows.NewInlineOrderWorkflows(services.Orders)
	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-client"), logger)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = workflows.NewTemporalOrderWorkflows(temporalClient, OrderFaults()).WithTaskQueue(cfg.TemporalTaskQueue)
		logger.Info("Temporal workflows enabled",
			slog.String("namespace", cfg.TemporalNamespace),
			slog.String("task_queue", cfg.TemporalTaskQueue),
		)
	}

	handlers := dscommerceserver.ApiHandleFunctions{
		Security:    dscommerceserver.NewSecurity(services.Users),
		AuthAPI:     dscommerceserver.NewAuthAPI(services.Users),
		UserAPI:     dscommerceserver.NewUserAPI(services.Users),
		CategoryAPI: dscommerceserver.NewCategoryAPI(services.Categories),
		ProductAPI:  dscommerceserver.NewProductAPI(services.Products),
		OrderAPI:    dscommerceserver.NewOrderAPI(services.Orders, orderWorkflows),
	}
	middleware := []gin.HandlerFunc{otelgin.Middleware(serviceName), dscommerceserver.AccessLog(logger)}
	if cfg.RateLimitRPS > 0 {
		middleware = append(middleware, dscommerceserver.RateLimit(dscommerceserver.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}
	router := dscommerceserver.NewRouter(handlers, middleware...)

	if stores.Purger != nil && cfg.SessionPurgeInterval > 0 {
		go purgeSessions(ctx, stores.Purger, cfg.SessionPurgeInterval, logger)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("dscommerce API listening", slog.String("addr", server.Addr), slog.String("driver", stores.Driver))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("dscommerce API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down dscommerce API", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// PurgeOnce deletes expired sessions and logs how many went.
func PurgeOnce(ctx context.Context, purger SessionPurger, logger *slog.Logger) error {
	removed, err := purger.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	logger.Info("expired sessions purged", slog.Int64("removed", removed))
	return nil
}

func purgeSessions(ctx context.Context, purger SessionPurger, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := PurgeOnce(ctx, purger, logger); err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
			}
		}
	}
}
