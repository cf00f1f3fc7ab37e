// Package kafka builds writers for the order event stream.
package kafka

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "order-events"

// Config describes the brokers and topic events are written to.
type Config struct {
	Brokers []string
	Topic   string
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// NewWriter returns an asynchronous writer that logs delivery failures.
// It returns nil when no brokers are configured.
func NewWriter(cfg Config, logger *slog.Logger) *kafka.Writer {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range messages {
				logger.LogAttrs(context.Background(), slog.LevelError, "kafka delivery failed",
					slog.String("topic", cfg.Topic),
					slog.String("key", string(m.Key)),
					slog.String("error", err.Error()),
				)
			}
		},
	}
}
