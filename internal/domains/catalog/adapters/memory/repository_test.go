package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

var games = domain.Category{ID: 1, Name: "Games"}

func product(name string, price int64) *domain.Product {
	return &domain.Product{
		Name:        name,
		Description: "Lorem ipsum dolor sit amet",
		Price:       decimal.NewFromInt(price),
		Categories:  []domain.Category{{ID: games.ID}},
	}
}

func TestSaveAssignsIDsAndResolvesCategories(t *testing.T) {
	repo := NewRepository(WithCategories(games))
	ctx := context.Background()

	saved, err := repo.Save(ctx, product("PlayStation 5", 3000))
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, "Games", saved.Categories[0].Name)

	_, err = repo.Save(ctx, &domain.Product{ID: 42, Name: "ghost"})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	bad := product("Xbox", 10)
	bad.Categories = []domain.Category{{ID: 7}}
	_, err = repo.Save(ctx, bad)
	assert.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestSearchByNameSortsAndPages(t *testing.T) {
	repo := NewRepository(WithCategories(games))
	ctx := context.Background()
	for _, p := range []*domain.Product{product("PC Gamer", 1200), product("PlayStation 5", 3000), product("Smart TV", 2190)} {
		_, err := repo.Save(ctx, p)
		require.NoError(t, err)
	}

	page, err := repo.SearchByName(ctx, "", pagination.Of(0, 2).SortBy("price", pagination.Desc))
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "PlayStation 5", page.Content[0].Name)
	assert.Equal(t, "Smart TV", page.Content[1].Name)
	assert.Equal(t, int64(3), page.TotalElements)

	page, err = repo.SearchByName(ctx, "pc", pagination.Of(0, 12))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "PC Gamer", page.Content[0].Name)
}

func TestDeleteHonoursReferenceChecker(t *testing.T) {
	referenced := map[int64]bool{}
	repo := NewRepository(WithCategories(games), WithReferenceChecker(func(_ context.Context, id int64) (bool, error) {
		return referenced[id], nil
	}))
	ctx := context.Background()
	saved, err := repo.Save(ctx, product("PlayStation 5", 3000))
	require.NoError(t, err)

	referenced[saved.ID] = true
	assert.ErrorIs(t, repo.DeleteByID(ctx, saved.ID), ports.ErrIntegrityViolation)

	referenced[saved.ID] = false
	require.NoError(t, repo.DeleteByID(ctx, saved.ID))
	exists, err := repo.ExistsByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.ErrorIs(t, repo.DeleteByID(ctx, saved.ID), ports.ErrNotFound)
}

func TestFindAllCategoriesOrderedByID(t *testing.T) {
	repo := NewRepository(WithCategories(domain.Category{ID: 3, Name: "Computadores"}, games))
	categories, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{games, {ID: 3, Name: "Computadores"}}, categories)
}
