package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	orderports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

const tracerName = "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/observability"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) FindByID(ctx context.Context, principal identity.Principal, id int64) (*types.OrderDTO, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindByID", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("user.username", principal.Username),
	))
	defer span.End()
	dto, err := s.inner.FindByID(ctx, principal, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return dto, nil
}

func (s *Service) Insert(ctx context.Context, principal identity.Principal, dto types.OrderDTO) (*types.OrderDTO, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Insert", trace.WithAttributes(
		attribute.String("user.username", principal.Username),
		attribute.Int("order.lines", len(dto.Items)),
	))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "placing order",
		slog.String("username", principal.Username), slog.Int("lines", len(dto.Items)))
	result, err := s.inner.Insert(ctx, principal, dto)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordFailed(ctx)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to place order",
			slog.String("username", principal.Username), slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordPlaced(ctx, result.Status)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order placed",
		slog.Int64("order.id", result.ID), slog.String("status", result.Status), slog.String("total", result.Total.String()))
	return result, nil
}

type serviceMetrics struct {
	placed metric.Int64Counter
	failed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	failed, _ := m.Int64Counter("orders.service.failed", metric.WithDescription("Number of rejected order placements"))
	return serviceMetrics{placed: placed, failed: failed}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status string) {
	if m.placed != nil {
		m.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context) {
	if m.failed != nil {
		m.failed.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
