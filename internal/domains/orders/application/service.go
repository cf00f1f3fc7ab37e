package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// Service implements order use cases.
type Service struct {
	repo     ports.Repository
	products ports.ProductCatalog
	clients  ports.ClientResolver
	guard    ports.AccessGuard
	events   ports.EventPublisher
	now      func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the time source used for the order moment.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEventPublisher announces placed orders.
func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

func NewService(repo ports.Repository, products ports.ProductCatalog, clients ports.ClientResolver, guard ports.AccessGuard, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		products: products,
		clients:  clients,
		guard:    guard,
		events:   ports.NoopEventPublisher,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID returns the order when the caller owns it or is an administrator.
func (s *Service) FindByID(ctx context.Context, principal identity.Principal, id int64) (*types.OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.guard.ValidateSelfOrAdmin(ctx, principal, order.Client.ID); err != nil {
		return nil, err
	}
	return types.FromOrder(order), nil
}

// Insert places an order for the caller at current product prices. Unknown
// callers and unknown products fail before anything is written.
func (s *Service) Insert(ctx context.Context, principal identity.Principal, dto types.OrderDTO) (*types.OrderDTO, error) {
	client, err := s.clients.Authenticated(ctx, principal)
	if err != nil {
		return nil, err
	}
	order := domain.NewOrder(client, s.now())
	for i, line := range dto.Items {
		// Lines for one product are merged, so each is checked before it folds in.
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidInput, i, domain.ErrInvalidQuantity)
		}
		product, err := s.products.GetReference(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		order.AddItem(*product, line.Quantity)
	}
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	// Delivery failures are reported by the publisher; the order is committed.
	_ = s.events.OrderPlaced(ctx, saved)
	return types.FromOrder(saved), nil
}

var _ ports.Service = (*Service)(nil)
