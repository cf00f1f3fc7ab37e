package application

import (
	"context"
	"errors"
	"strings"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

// ProductService implements catalog product use cases.
type ProductService struct {
	repo ports.ProductRepository
}

func NewProductService(repo ports.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) FindByID(ctx context.Context, id int64) (*types.ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return types.FromProduct(product), nil
}

func (s *ProductService) FindAll(ctx context.Context, name string, page pagination.Pageable) (pagination.Page[types.ProductMinDTO], error) {
	result, err := s.repo.SearchByName(ctx, strings.TrimSpace(name), page.Normalize())
	if err != nil {
		return pagination.Page[types.ProductMinDTO]{}, err
	}
	return pagination.Map(result, types.MinFromProduct), nil
}

func (s *ProductService) Insert(ctx context.Context, dto types.ProductDTO) (*types.ProductDTO, error) {
	product := &domain.Product{}
	dto.CopyTo(product)
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return types.FromProduct(saved), nil
}

func (s *ProductService) Update(ctx context.Context, id int64, dto types.ProductDTO) (*types.ProductDTO, error) {
	product, err := s.repo.GetReference(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	dto.CopyTo(product)
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return types.FromProduct(saved), nil
}

// Delete removes a product. The existence check and the integrity check are
// separate: a missing id is ErrResourceNotFound, a referenced one is
// ErrDatabaseConstraint.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFound(id)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return notFound(id)
		}
		return mapError(err)
	}
	return nil
}

var _ ports.ProductService = (*ProductService)(nil)
