package dscommerceserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devsuperior/dscommerce/internal/domains/orders/application/types"
	ordersports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// IdempotencyKeyHeader lets clients retry an order placement safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and placement workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil workflows places orders through the service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Get /orders/:id
// Find order by ID; clients only see their own orders
func (api *OrderAPI) FindByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.FindByID(c.Request.Context(), PrincipalFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Post /orders
// Places an order for the caller at current prices
func (api *OrderAPI) Insert(c *gin.Context) {
	var payload OrderInput
	if !bindJSON(c, &payload) {
		return
	}
	dto := types.OrderDTO{Items: make([]types.OrderItemDTO, 0, len(payload.Items))}
	for _, item := range payload.Items {
		dto.Items = append(dto.Items, types.OrderItemDTO{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	placed, err := api.placeOrder(c.Request.Context(), PrincipalFrom(c), dto, key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/orders/%d", placed.ID))
	c.JSON(http.StatusCreated, placed)
}

func (api *OrderAPI) placeOrder(ctx context.Context, principal identity.Principal, dto types.OrderDTO, key string) (*types.OrderDTO, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, principal, dto, key)
	}
	return api.service.Insert(ctx, principal, dto)
}
