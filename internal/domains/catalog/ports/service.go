package ports

import (
	"context"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

// CategoryService exposes the read-only category use case.
type CategoryService interface {
	FindAll(ctx context.Context) ([]types.CategoryDTO, error)
}

// ProductService exposes catalog product use cases to adapters.
type ProductService interface {
	FindByID(ctx context.Context, id int64) (*types.ProductDTO, error)
	FindAll(ctx context.Context, name string, page pagination.Pageable) (pagination.Page[types.ProductMinDTO], error)
	Insert(ctx context.Context, dto types.ProductDTO) (*types.ProductDTO, error)
	Update(ctx context.Context, id int64, dto types.ProductDTO) (*types.ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}
