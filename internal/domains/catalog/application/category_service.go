package application

import (
	"context"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
)

// CategoryService lists catalog categories.
type CategoryService struct {
	repo ports.CategoryRepository
}

func NewCategoryService(repo ports.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) FindAll(ctx context.Context) ([]types.CategoryDTO, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, types.FromCategory(c))
	}
	return out, nil
}

var _ ports.CategoryService = (*CategoryService)(nil)
