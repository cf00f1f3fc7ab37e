package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	orderports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	platformtemporal "github.com/devsuperior/dscommerce/internal/platform/temporal"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

const (
	// PersistOrderActivityName inserts the order for the caller.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// PublishOrderPlacedActivityName announces a committed order.
	PublishOrderPlacedActivityName = "orders.activities.PublishOrderPlaced"
)

// PlaceOrderInput is the payload carried through the placement workflow.
type PlaceOrderInput struct {
	Principal identity.Principal
	Order     types.OrderDTO
}

// OrderIdentifier names a stored order.
type OrderIdentifier struct {
	ID int64
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	persistService orderports.Service
	repo           orderports.Repository
	events         orderports.EventPublisher
	faults         platformtemporal.Faults
}

// NewActivities wires the order collaborators into the Temporal activities bundle.
// persistService should be built without an event publisher; publishing is its own activity.
func NewActivities(persistService orderports.Service, repo orderports.Repository, events orderports.EventPublisher, faults platformtemporal.Faults) *Activities {
	return &Activities{persistService: persistService, repo: repo, events: events, faults: faults}
}

// PersistOrder places the order. Business failures are not retried.
func (a *Activities) PersistOrder(ctx context.Context, input PlaceOrderInput) (*types.OrderDTO, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.persistService == nil {
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "username", input.Principal.Username, "lines", len(input.Order.Items))
	dto, err := a.persistService.Insert(ctx, input.Principal, input.Order)
	if err != nil {
		logger.Error("PersistOrder activity failed", "username", input.Principal.Username, "error", err)
		return nil, a.faults.Wrap(err)
	}
	logger.Info("PersistOrder activity completed", "orderId", dto.ID)
	return dto, nil
}

// PublishOrderPlaced loads the committed order and hands it to the event publisher.
func (a *Activities) PublishOrderPlaced(ctx context.Context, input OrderIdentifier) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		return errors.New("order publish activity not initialized")
	}
	if a.events == nil {
		logger.Info("event publisher not configured; skipping", "orderId", input.ID)
		return nil
	}
	order, err := a.repo.FindByID(ctx, input.ID)
	if err != nil {
		logger.Error("PublishOrderPlaced failed to load order", "orderId", input.ID, "error", err)
		return a.faults.Wrap(err)
	}
	if err := a.events.OrderPlaced(ctx, order); err != nil {
		logger.Error("PublishOrderPlaced failed", "orderId", input.ID, "error", err)
		return err
	}
	logger.Info("PublishOrderPlaced activity completed", "orderId", input.ID)
	return nil
}
