package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/devsuperior/dscommerce/internal/shared/requestid"
)

// SlowQueryThreshold marks queries that are logged at warn level.
const SlowQueryThreshold = 200 * time.Millisecond

// ParseLogLevel maps a textual level onto gorm's levels. Unknown values mean warn.
func ParseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

// GormLogger routes gorm's logging through slog.
type GormLogger struct {
	logger *slog.Logger
	level  gormlogger.LogLevel
	slow   time.Duration
}

// NewGormLogger adapts logger for gorm.
func NewGormLogger(logger *slog.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{logger: logger, level: level, slow: SlowQueryThreshold}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if id := requestid.FromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	l.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log(ctx, slog.LevelInfo, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log(ctx, slog.LevelWarn, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log(ctx, slog.LevelError, fmt.Sprintf(msg, args...))
	}
}

// Trace logs failed statements at error level, slow ones at warn and the
// rest at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", sql),
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
	}
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		l.log(ctx, slog.LevelError, "database operation failed", append(attrs, slog.String("error", err.Error()))...)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		l.log(ctx, slog.LevelWarn, "slow sql query", attrs...)
	case l.level >= gormlogger.Info:
		l.log(ctx, slog.LevelDebug, "sql query executed", attrs...)
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
