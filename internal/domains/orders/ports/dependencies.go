package ports

import (
	"context"
	"errors"

	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// ErrProductNotFound is returned when an order line names an unknown product.
var ErrProductNotFound = errors.New("product not found")

// ProductCatalog resolves product references for order lines.
type ProductCatalog interface {
	GetReference(ctx context.Context, productID int64) (*domain.ProductSnapshot, error)
}

// ClientResolver maps the caller to the client placing an order.
type ClientResolver interface {
	Authenticated(ctx context.Context, principal identity.Principal) (domain.Client, error)
}

// AccessGuard decides whether the caller may see a client's data.
type AccessGuard interface {
	ValidateSelfOrAdmin(ctx context.Context, principal identity.Principal, userID int64) error
}
