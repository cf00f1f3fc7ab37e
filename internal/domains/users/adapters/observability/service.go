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

	"github.com/devsuperior/dscommerce/internal/domains/users/application/types"
	userdomain "github.com/devsuperior/dscommerce/internal/domains/users/domain"
	userports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

const tracerName = "github.com/devsuperior/dscommerce/internal/domains/users/adapters/observability"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Authenticated(ctx context.Context, principal identity.Principal) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticated", trace.WithAttributes(attribute.String("user.username", principal.Username)))
	defer span.End()
	user, err := s.inner.Authenticated(ctx, principal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return user, nil
}

func (s *Service) LoadUserByUsername(ctx context.Context, username string) (*userdomain.UserDetails, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.LoadUserByUsername", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	details, err := s.inner.LoadUserByUsername(ctx, username)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user details", slog.String("username", username))
	}
	span.SetAttributes(attribute.Int("user.authorities", len(details.Roles)))
	return details, nil
}

func (s *Service) GetMe(ctx context.Context, principal identity.Principal) (*types.UserDTO, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetMe", trace.WithAttributes(attribute.String("user.username", principal.Username)))
	defer span.End()
	dto, err := s.inner.GetMe(ctx, principal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return dto, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*types.AccessToken, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	token, err := s.inner.Login(ctx, username, password)
	if err != nil {
		s.metrics.recordLoginFailure(ctx)
		return nil, s.handleError(ctx, span, err, "login failed", slog.String("username", username))
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "user logged in", slog.String("username", username))
	return token, nil
}

func (s *Service) Logout(ctx context.Context, principal identity.Principal) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout", trace.WithAttributes(attribute.String("user.username", principal.Username)))
	defer span.End()
	if err := s.inner.Logout(ctx, principal); err != nil {
		return s.handleError(ctx, span, err, "logout failed", slog.String("username", principal.Username))
	}
	s.metrics.recordLogout(ctx)
	s.logInfo(ctx, "user logged out", slog.String("username", principal.Username))
	return nil
}

// Resolve runs on every authenticated request, so only failures are logged.
func (s *Service) Resolve(ctx context.Context, token string) (identity.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Resolve")
	defer span.End()
	principal, err := s.inner.Resolve(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelDebug, "token rejected", slog.String("error", err.Error()))
		return principal, err
	}
	span.SetAttributes(attribute.String("user.username", principal.Username))
	return principal, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

type serviceMetrics struct {
	logins        metric.Int64Counter
	loginFailures metric.Int64Counter
	logouts       metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	failures, _ := m.Int64Counter("users.service.login_failures", metric.WithDescription("Number of rejected logins"))
	logouts, _ := m.Int64Counter("users.service.logouts", metric.WithDescription("Number of logouts"))
	return serviceMetrics{logins: logins, loginFailures: failures, logouts: logouts}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLoginFailure(ctx context.Context) {
	if m.loginFailures != nil {
		m.loginFailures.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogout(ctx context.Context) {
	if m.logouts != nil {
		m.logouts.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
