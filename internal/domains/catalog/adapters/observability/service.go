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

	"github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	catalogports "github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

const tracerName = "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/observability"

// ProductService decorates the product service with tracing, logging, and metrics.
type ProductService struct {
	inner   catalogports.ProductService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*ProductService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *ProductService) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *ProductService) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *ProductService) { s.metrics = newServiceMetrics(m) }
}

// NewProductService wraps the core product service.
func NewProductService(inner catalogports.ProductService, opts ...Option) catalogports.ProductService {
	s := &ProductService{
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

func (s *ProductService) FindByID(ctx context.Context, id int64) (*types.ProductDTO, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	dto, err := s.inner.FindByID(ctx, id)
	if err != nil {
		markSpan(span, err)
		return nil, err
	}
	return dto, nil
}

func (s *ProductService) FindAll(ctx context.Context, name string, page pagination.Pageable) (pagination.Page[types.ProductMinDTO], error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindAll", trace.WithAttributes(
		attribute.String("product.name_filter", name),
		attribute.Int("page.number", page.Page),
		attribute.Int("page.size", page.Size),
	))
	defer span.End()
	result, err := s.inner.FindAll(ctx, name, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to search products", slog.String("name", name))
	}
	span.SetAttributes(attribute.Int64("page.total_elements", result.TotalElements))
	return result, nil
}

func (s *ProductService) Insert(ctx context.Context, dto types.ProductDTO) (*types.ProductDTO, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Insert", trace.WithAttributes(attribute.String("product.name", dto.Name)))
	defer span.End()
	result, err := s.inner.Insert(ctx, dto)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("name", dto.Name))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, dto types.ProductDTO) (*types.ProductDTO, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.Update(ctx, id, dto)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "product updated", slog.Int64("product.id", id))
	return result, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func markSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (s *ProductService) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	markSpan(span, err)
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

func (s *ProductService) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.products.created", metric.WithDescription("Number of products created"))
	updated, _ := m.Int64Counter("catalog.products.updated", metric.WithDescription("Number of products updated"))
	deleted, _ := m.Int64Counter("catalog.products.deleted", metric.WithDescription("Number of products deleted"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.updated != nil {
		m.updated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

var _ catalogports.ProductService = (*ProductService)(nil)
