package ports

import (
	"context"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// WorkflowOrchestrator places orders, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, principal identity.Principal, dto types.OrderDTO, idempotencyKey string) (*types.OrderDTO, error)
}
