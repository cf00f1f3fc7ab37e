package ports

import (
	"context"
	"errors"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders together with their items.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// Save writes the order and all of its items in one transaction.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
