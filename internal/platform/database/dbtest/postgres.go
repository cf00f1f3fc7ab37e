//go:build integration

// Package dbtest starts a seeded PostgreSQL container for repository tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/devsuperior/dscommerce/internal/platform/migrations"
	"github.com/devsuperior/dscommerce/internal/platform/security"
	"github.com/devsuperior/dscommerce/internal/platform/seed"
)

// StartPostgres runs a throwaway PostgreSQL, migrates it and loads the
// reference dataset. The test is skipped when no container runtime exists.
func StartPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("dscommerce_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Run(db))
	loaded, err := seed.LoadSQL(ctx, sqlx.NewDb(sqlDB, "pgx"), seed.Reference(), security.NewBcryptEncoder(4))
	require.NoError(t, err)
	require.True(t, loaded)
	return db
}
