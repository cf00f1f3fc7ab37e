package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	platformtemporal "github.com/devsuperior/dscommerce/internal/platform/temporal"
	orderactivities "github.com/devsuperior/dscommerce/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/devsuperior/dscommerce/internal/platform/temporal/workflows/orders"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
	faults    platformtemporal.Faults
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
// faults translates business failures back into their sentinel errors.
func NewTemporalOrderWorkflows(c client.Client, faults platformtemporal.Faults) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue, faults: faults}
}

// WithTaskQueue routes workflows to queue instead of the default placement queue.
func (o *TemporalOrderWorkflows) WithTaskQueue(queue string) *TemporalOrderWorkflows {
	if queue != "" {
		o.taskQueue = queue
	}
	return o
}

// PlaceOrder runs the placement workflow and waits for its result. Repeating
// a request with the same idempotency key returns the first result.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, principal identity.Principal, dto types.OrderDTO, idempotencyKey string) (*types.OrderDTO, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(principal, idempotencyKey, traceComponent)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	input := orderworkflows.OrderPlacementWorkflowInput{
		Command: orderactivities.PlaceOrderInput{Principal: principal, Order: dto},
		TraceID: traceComponent,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderPlacementWorkflow, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(idempotencyKey) != "" {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var order types.OrderDTO
	if err := run.Get(ctx, &order); err != nil {
		return nil, o.faults.Unwrap(err)
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the application service; the idempotency key is ignored.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, principal identity.Principal, dto types.OrderDTO, _ string) (*types.OrderDTO, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.Insert(ctx, principal, dto)
}

func buildOrderPlacementWorkflowID(principal identity.Principal, idempotencyKey, traceComponent string) string {
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(principal.Username, key))
	}
	return fmt.Sprintf("order-placement-%d-%s", time.Now().UnixNano(), traceComponent)
}

// hashIdempotencyKey scopes the key to the caller so two clients cannot collide.
func hashIdempotencyKey(username, key string) string {
	sum := sha256.Sum256([]byte(username + "\x00" + key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
