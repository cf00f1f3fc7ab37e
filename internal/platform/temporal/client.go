// Package temporal holds the Temporal client, workflows and activities for durable order placement.
package temporal

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ClientConfig locates the Temporal frontend.
type ClientConfig struct {
	Address   string
	Namespace string
	Disabled  bool
}

// ErrDisabled is returned by Dial when Temporal is switched off.
var ErrDisabled = errors.New("temporal disabled by configuration")

// Dial connects a client that propagates OpenTelemetry spans into workflows.
func Dial(cfg ClientConfig, tracer trace.Tracer, logger *slog.Logger) (client.Client, error) {
	if cfg.Disabled {
		return nil, ErrDisabled
	}
	if cfg.Address == "" {
		cfg.Address = client.DefaultHostPort
	}
	if cfg.Namespace == "" {
		cfg.Namespace = client.DefaultNamespace
	}
	if logger == nil {
		logger = slog.Default()
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
