package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	catalogmemory "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/persistence/postgres"
	catalogsqlite "github.com/devsuperior/dscommerce/internal/domains/catalog/adapters/persistence/sqlite"
	catalogports "github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	ordersmemory "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/persistence/postgres"
	orderssqlite "github.com/devsuperior/dscommerce/internal/domains/orders/adapters/persistence/sqlite"
	ordersports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	usersredis "github.com/devsuperior/dscommerce/internal/domains/users/adapters/cache/redis"
	usersmemory "github.com/devsuperior/dscommerce/internal/domains/users/adapters/memory"
	userspostgres "github.com/devsuperior/dscommerce/internal/domains/users/adapters/persistence/postgres"
	userssqlite "github.com/devsuperior/dscommerce/internal/domains/users/adapters/persistence/sqlite"
	usersports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/platform/database"
	"github.com/devsuperior/dscommerce/internal/platform/migrations"
	platformredis "github.com/devsuperior/dscommerce/internal/platform/redis"
	"github.com/devsuperior/dscommerce/internal/platform/seed"
	"github.com/devsuperior/dscommerce/internal/platform/sqlite"
)

// SessionPurger deletes expired sessions from stores that do not expire them on their own.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Stores bundles the repositories of every bounded context on one backend.
type Stores struct {
	Driver     string
	Products   catalogports.ProductRepository
	Categories catalogports.CategoryRepository
	Users      usersports.Repository
	Orders     ordersports.Repository
	Sessions   usersports.SessionStore
	// Purger is nil when sessions expire on their own.
	Purger SessionPurger

	closers []func()
}

// Close releases every connection the stores hold, newest first.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores builds the repositories for the configured driver. A relational
// database that cannot be reached falls back to memory. Sessions move to
// Redis when REDIS_ADDR is set and reachable.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		stores *Stores
		err    error
	)
	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverMySQL:
		stores, err = openGormStores(ctx, cfg, logger)
	case DriverSQLite:
		stores, err = openSQLiteStores(ctx, cfg)
	default:
		stores, err = openMemoryStores(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	if cfg.RedisAddr != "" {
		client, err := platformredis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, keeping sessions in the primary store", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		} else {
			stores.Sessions = usersredis.NewSessionStore(client)
			stores.Purger = nil
			stores.closers = append(stores.closers, func() { _ = client.Close() })
			logger.Info("sessions stored in redis", slog.String("addr", cfg.RedisAddr))
		}
	}
	logger.Info("repositories configured", slog.String("driver", stores.Driver))
	return stores, nil
}

func openMemoryStores(ctx context.Context, cfg Config) (*Stores, error) {
	orders := ordersmemory.NewRepository()
	catalog := catalogmemory.NewRepository(catalogmemory.WithReferenceChecker(orders.ReferencesProduct))
	users := usersmemory.NewRepository()
	if cfg.SeedData {
		memory := seed.Memory{Catalog: catalog, Users: users, Orders: orders}
		if err := seed.LoadMemory(ctx, memory, seed.Reference(), newPasswordEncoder(cfg)); err != nil {
			return nil, fmt.Errorf("seed memory stores: %w", err)
		}
	}
	sessions := usersmemory.NewSessionStore()
	return &Stores{
		Driver:     DriverMemory,
		Products:   catalog,
		Categories: catalog,
		Users:      users,
		Orders:     orders,
		Sessions:   sessions,
		Purger:     sessions,
	}, nil
}

func openSQLiteStores(ctx context.Context, cfg Config) (*Stores, error) {
	db, err := sqlite.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := seedSQL(ctx, cfg, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	catalog := catalogsqlite.NewRepository(db)
	sessions := userssqlite.NewSessionStore(db)
	return &Stores{
		Driver:     DriverSQLite,
		Products:   catalog,
		Categories: catalog,
		Users:      userssqlite.NewRepository(db),
		Orders:     orderssqlite.NewRepository(db),
		Sessions:   sessions,
		Purger:     sessions,
		closers:    []func(){func() { _ = db.Close() }},
	}, nil
}

func openGormStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, error) {
	db, cleanup := database.ConnectOrFallback(ctx, database.Config{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseDSN,
		LogLevel: cfg.LogLevel,
	}, logger)
	if db == nil {
		return openMemoryStores(ctx, cfg)
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		cleanup()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		cleanup()
		return nil, err
	}
	driverName := "pgx"
	if cfg.DatabaseDriver == DriverMySQL {
		driverName = "mysql"
	}
	if err := seedSQL(ctx, cfg, sqlx.NewDb(sqlDB, driverName)); err != nil {
		cleanup()
		return nil, err
	}
	catalog := catalogpostgres.NewRepository(db)
	sessions := userspostgres.NewSessionStore(db)
	return &Stores{
		Driver:     cfg.DatabaseDriver,
		Products:   catalog,
		Categories: catalog,
		Users:      userspostgres.NewRepository(db),
		Orders:     orderspostgres.NewRepository(db),
		Sessions:   sessions,
		Purger:     sessions,
		closers:    []func(){cleanup},
	}, nil
}

func seedSQL(ctx context.Context, cfg Config, db *sqlx.DB) error {
	if !cfg.SeedData {
		return nil
	}
	seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := seed.LoadSQL(seedCtx, db, seed.Reference(), newPasswordEncoder(cfg)); err != nil {
		return fmt.Errorf("seed %s: %w", cfg.DatabaseDriver, err)
	}
	return nil
}
