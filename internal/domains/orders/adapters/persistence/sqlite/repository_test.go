package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	platformsqlite "github.com/devsuperior/dscommerce/internal/platform/sqlite"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := platformsqlite.Open(context.Background(), platformsqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.MustExec(`INSERT INTO tb_user(id, name, email, password) VALUES (1, 'Maria Brown', 'maria@gmail.com', 'x')`)
	db.MustExec(`INSERT INTO tb_product(id, name, description, price, img_url) VALUES
		(1, 'The Lord of the Rings', 'Lorem ipsum dolor', 90.5, 'https://img/1.jpg'),
		(2, 'Smart TV', 'Lorem ipsum dolor', 2190, 'https://img/2.jpg')`)
	return db
}

func newOrder(moment time.Time) *domain.Order {
	o := domain.NewOrder(domain.Client{ID: 1}, moment)
	o.AddItem(domain.ProductSnapshot{ID: 1, Price: decimal.RequireFromString("90.5")}, 2)
	o.AddItem(domain.ProductSnapshot{ID: 2, Price: decimal.NewFromInt(2190)}, 1)
	return o
}

func TestSaveAndFindByID(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	moment := time.Date(2022, 7, 25, 13, 0, 0, 0, time.UTC)

	saved, err := repo.Save(ctx, newOrder(moment))

	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.True(t, moment.Equal(saved.Moment))
	assert.Equal(t, domain.StatusWaitingPayment, saved.Status)
	assert.Equal(t, domain.Client{ID: 1, Name: "Maria Brown"}, saved.Client)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, "The Lord of the Rings", saved.Items[0].Name)
	assert.Equal(t, "https://img/1.jpg", saved.Items[0].ImgURL)
	assert.True(t, decimal.RequireFromString("2371").Equal(saved.Total()))

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Items, found.Items)
}

func TestSaveUnknownProductCommitsNothing(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	order := newOrder(time.Now())
	order.AddItem(domain.ProductSnapshot{ID: 99, Price: decimal.NewFromInt(1)}, 1)

	_, err := repo.Save(ctx, order)
	require.Error(t, err)

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReferencesProduct(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	_, err := repo.Save(ctx, newOrder(time.Now()))
	require.NoError(t, err)

	referenced, err := repo.ReferencesProduct(ctx, 2)
	require.NoError(t, err)
	assert.True(t, referenced)
}
