package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

// Save stores the order and its items as a unit; an invalid order stores nothing.
func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

// ReferencesProduct reports whether any stored order has a line for productID.
// It backs the catalog's delete integrity check.
func (r *Repository) ReferencesProduct(_ context.Context, productID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.ReferencesProduct(productID) {
			return true, nil
		}
	}
	return false, nil
}
