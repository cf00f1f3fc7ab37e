package ports

import (
	"context"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// Service exposes order use cases to adapters. The caller is always passed explicitly.
type Service interface {
	FindByID(ctx context.Context, principal identity.Principal, id int64) (*types.OrderDTO, error)
	Insert(ctx context.Context, principal identity.Principal, dto types.OrderDTO) (*types.OrderDTO, error)
}
