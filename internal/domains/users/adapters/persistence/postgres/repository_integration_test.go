//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/platform/database/dbtest"
)

func TestRepository_SearchUserAndRolesByEmail(t *testing.T) {
	repo := NewRepository(dbtest.StartPostgres(t))

	rows, err := repo.SearchUserAndRolesByEmail(context.Background(), "alex@gmail.com")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	details, err := domain.FoldUserDetails(rows)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ROLE_CLIENT", "ROLE_ADMIN"}, details.Authorities())
}

func TestRepository_FindByEmail(t *testing.T) {
	repo := NewRepository(dbtest.StartPostgres(t))
	ctx := context.Background()

	user, err := repo.FindByEmail(ctx, "maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "Maria Brown", user.Name)
	assert.True(t, user.HasRole("ROLE_CLIENT"))

	_, err = repo.FindByEmail(ctx, "ghost@gmail.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	store := NewSessionStore(dbtest.StartPostgres(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "maria@gmail.com", "live", time.Now().Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "maria@gmail.com", "stale", time.Now().Add(-time.Hour)))

	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	ok, err := store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "maria@gmail.com"))
	ok, err = store.Exists(ctx, "live")
	require.NoError(t, err)
	assert.False(t, ok)
}
