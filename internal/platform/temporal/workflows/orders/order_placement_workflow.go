package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	orderactivities "github.com/devsuperior/dscommerce/internal/platform/temporal/activities/orders"
	"github.com/devsuperior/dscommerce/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput carries the caller, the requested order and the trace id.
type OrderPlacementWorkflowInput struct {
	Command orderactivities.PlaceOrderInput
	TraceID string
}

// OrderPlacementWorkflow durably places an order and announces it.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*types.OrderDTO, error) {
	logger := workflow.GetLogger(ctx)
	username := input.Command.Principal.Username
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "username", username)...)
	order, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "username", username, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
