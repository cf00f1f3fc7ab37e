package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

var (
	// ErrNotFound is returned when a product or category id does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrCategoryNotFound is returned when a product references an unknown category.
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	// ErrIntegrityViolation is returned when a delete would orphan referencing rows.
	ErrIntegrityViolation = errors.New("referential integrity violation")
)

// ProductSortFields lists the fields product searches may be sorted by.
var ProductSortFields = []string{"id", "name", "price"}

// ProductRepository persists products and their category links.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetReference returns the product to be modified in place. It fails
	// with ErrNotFound when the id does not exist.
	GetReference(ctx context.Context, id int64) (*domain.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	SearchByName(ctx context.Context, name string, page pagination.Pageable) (pagination.Page[*domain.Product], error)
	// Save inserts products with a zero id and replaces existing ones.
	// Referencing an unknown category fails with ErrCategoryNotFound.
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteByID(ctx context.Context, id int64) error
}

// CategoryRepository reads the category list.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
}
