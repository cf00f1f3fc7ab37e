package ports

import (
	"context"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
)

// EventPublisher announces committed orders to other systems.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
}

// NoopEventPublisher drops events.
var NoopEventPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) OrderPlaced(context.Context, *domain.Order) error { return nil }
