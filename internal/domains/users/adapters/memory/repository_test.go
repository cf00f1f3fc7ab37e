package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

func TestRepositoryProjectionHasOneRowPerRole(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	alex := &domain.User{Name: "Alex Green", Email: "alex@gmail.com", Password: "hash"}
	alex.AddRole(domain.Role{ID: 1, Authority: domain.RoleClient})
	alex.AddRole(domain.Role{ID: 2, Authority: domain.RoleAdmin})

	saved, err := repo.Save(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	rows, err := repo.SearchUserAndRolesByEmail(ctx, "alex@gmail.com")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "hash", rows[1].Password)
	assert.Equal(t, domain.RoleAdmin, rows[1].Authority)

	rows, err = repo.SearchUserAndRolesByEmail(ctx, "nobody@gmail.com")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = repo.FindByEmail(ctx, "nobody@gmail.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = repo.Save(ctx, &domain.User{Name: "Dup", Email: "ALEX@gmail.com", Password: "x"})
	assert.Error(t, err)
}

func TestSessionStoreExpiresAndRevokes(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "maria@gmail.com", "t1", now.Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "maria@gmail.com", "t2", now.Add(time.Minute)))
	require.NoError(t, store.Save(ctx, "alex@gmail.com", "t3", now.Add(time.Hour)))

	live, err := store.Exists(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, live)

	now = now.Add(2 * time.Minute)
	live, _ = store.Exists(ctx, "t2")
	assert.False(t, live)

	require.NoError(t, store.Delete(ctx, "maria@gmail.com"))
	live, _ = store.Exists(ctx, "t1")
	assert.False(t, live)
	live, _ = store.Exists(ctx, "t3")
	assert.True(t, live)
}

func TestSessionStorePurgesUnusedExpiredTokens(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "maria@gmail.com", "t1", now.Add(time.Minute)))
	require.NoError(t, store.Save(ctx, "alex@gmail.com", "t2", now.Add(time.Minute)))
	require.NoError(t, store.Save(ctx, "alex@gmail.com", "t3", now.Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "alex@gmail.com", "t4", time.Time{}))

	removed, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	now = now.Add(2 * time.Minute)
	removed, err = store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Len(t, store.sessions, 2)

	live, _ := store.Exists(ctx, "t3")
	assert.True(t, live)
	live, _ = store.Exists(ctx, "t4")
	assert.True(t, live)
}
