// Package database opens the relational store used by the gorm adapters.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
)

// Config describes how to reach the database.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

func (c *Config) applyDefaults() {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Connect opens a connection via GORM and verifies connectivity.
// Driver errors are translated so gorm.ErrForeignKeyViolated and
// gorm.ErrDuplicatedKey can be matched with errors.Is.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("%s DSN is empty", cfg.Driver)
	}
	dial, err := dialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	gormCfg := &gorm.Config{TranslateError: true}
	if logger != nil {
		gormCfg.Logger = NewGormLogger(logger, ParseLogLevel(cfg.LogLevel))
	} else {
		gormCfg.Logger = gormlogger.Discard
	}
	db, err := gorm.Open(dial, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOrFallback dials the database and returns the DB plus a cleanup function.
// When the DSN is missing or the connection fails, it logs and returns nil with a
// no-op cleanup so callers can fall back to in-memory repositories.
func ConnectOrFallback(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		logger.Warn("database DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := Connect(ctx, cfg, logger)
	if err != nil {
		logger.Warn("failed to connect to database, falling back to in-memory repositories",
			slog.String("driver", cfg.Driver), slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap database connection, falling back to in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return db, func() { _ = sqlDB.Close() }
}
