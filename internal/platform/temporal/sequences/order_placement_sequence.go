package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	orderactivities "github.com/devsuperior/dscommerce/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence persists the order, then publishes the order.placed
// event. A publishing failure is logged and does not fail the placement.
func RunOrderPlacementSequence(ctx workflow.Context, input orderactivities.PlaceOrderInput) (*types.OrderDTO, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "username", input.Principal.Username)
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	publishOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    10,
		},
	}

	var order types.OrderDTO
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "username", input.Principal.Username, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", order.ID)

	publishInput := orderactivities.OrderIdentifier{ID: order.ID}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, publishOptions), orderactivities.PublishOrderPlacedActivityName, publishInput).Get(ctx, nil); err != nil {
		logger.Warn("order placement sequence could not publish event", "orderId", order.ID, "error", err)
	}
	return &order, nil
}
