package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	platformsqlite "github.com/devsuperior/dscommerce/internal/platform/sqlite"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

func newTestRepository(t *testing.T) (*Repository, *sqlx.DB) {
	t.Helper()
	db, err := platformsqlite.Open(context.Background(), platformsqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.MustExec(`INSERT INTO tb_category(id, name) VALUES (1, 'Livros'), (2, 'Eletrônicos'), (3, 'Computadores')`)
	return NewRepository(db), db
}

func newProduct(name string, price int64, categories ...int64) *domain.Product {
	p := &domain.Product{
		Name:        name,
		Description: "Lorem ipsum dolor sit amet",
		Price:       decimal.NewFromInt(price),
		ImgURL:      "https://example.com/img.jpg",
	}
	for _, id := range categories {
		p.Categories = append(p.Categories, domain.Category{ID: id})
	}
	return p
}

func TestSaveInsertsAndLoadsCategories(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newProduct("PlayStation 5", 3000, 2, 3))

	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.True(t, decimal.NewFromInt(3000).Equal(saved.Price))
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Eletrônicos"}, {ID: 3, Name: "Computadores"}}, saved.Categories)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func TestSaveUpdateReplacesCategories(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	saved, err := repo.Save(ctx, newProduct("PlayStation 5", 3000, 2, 3))
	require.NoError(t, err)

	saved.Name = "PlayStation 5 Slim"
	saved.ReplaceCategories([]domain.Category{{ID: 1}})
	updated, err := repo.Save(ctx, saved)

	require.NoError(t, err)
	assert.Equal(t, "PlayStation 5 Slim", updated.Name)
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Livros"}}, updated.Categories)
}

func TestSaveUnknownCategory(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Save(context.Background(), newProduct("PlayStation 5", 3000, 99))

	assert.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestFindByIDMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.FindByID(context.Background(), 42)

	assert.ErrorIs(t, err, ports.ErrNotFound)
	exists, err := repo.ExistsByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearchByNamePagesAndSorts(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	for _, p := range []*domain.Product{
		newProduct("The Lord of the Rings", 90, 1),
		newProduct("Smart TV", 2190, 2),
		newProduct("Macbook Pro", 1250, 3),
		newProduct("PC Gamer", 1200, 3),
		newProduct("PC Gamer Weed", 3200, 3),
	} {
		_, err := repo.Save(ctx, p)
		require.NoError(t, err)
	}

	page, err := repo.SearchByName(ctx, "pc gamer", pagination.Of(0, 12).SortBy("price", pagination.Desc))
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "PC Gamer Weed", page.Content[0].Name)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.NotEmpty(t, page.Content[0].Categories)

	page, err = repo.SearchByName(ctx, "", pagination.Of(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Macbook Pro", page.Content[0].Name)
}

func TestFindAllCategories(t *testing.T) {
	repo, _ := newTestRepository(t)

	categories, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, categories, 3)
	assert.Equal(t, "Livros", categories[0].Name)
}

func TestDeleteByID(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()
	free, err := repo.Save(ctx, newProduct("Smart TV", 2190, 2))
	require.NoError(t, err)
	ordered, err := repo.Save(ctx, newProduct("Macbook Pro", 1250, 3))
	require.NoError(t, err)
	db.MustExec(`INSERT INTO tb_user(id, name, email, password) VALUES (1, 'Maria Brown', 'maria@gmail.com', 'x')`)
	db.MustExec(`INSERT INTO tb_order(id, moment, status, client_id) VALUES (1, '2022-07-25T13:00:00Z', 'PAID', 1)`)
	db.MustExec(`INSERT INTO tb_order_item(order_id, product_id, quantity, price) VALUES (1, ?, 1, 1250)`, ordered.ID)

	t.Run("unreferenced", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, free.ID))
		exists, err := repo.ExistsByID(ctx, free.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteByID(ctx, 1000), ports.ErrNotFound)
	})

	t.Run("referenced by an order item", func(t *testing.T) {
		err := repo.DeleteByID(ctx, ordered.ID)
		assert.ErrorIs(t, err, ports.ErrIntegrityViolation)
		exists, err := repo.ExistsByID(ctx, ordered.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
