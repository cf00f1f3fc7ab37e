// Package bridge adapts the catalog and users contexts to the ports the orders context consumes.
package bridge

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/devsuperior/dscommerce/internal/domains/catalog/domain"
	catalogports "github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/domains/orders/domain"
	"github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	userdomain "github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// ProductReferences reads products from the catalog.
type ProductReferences interface {
	GetReference(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

// Catalog resolves order lines against the catalog repository.
type Catalog struct {
	products ProductReferences
}

func NewCatalog(products ProductReferences) *Catalog {
	return &Catalog{products: products}
}

// GetReference returns the product snapshot. A missing product is reported
// as ports.ErrProductNotFound while still matching the catalog's not-found error.
func (c *Catalog) GetReference(ctx context.Context, productID int64) (*domain.ProductSnapshot, error) {
	product, err := c.products.GetReference(ctx, productID)
	if errors.Is(err, catalogports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d: %w", ports.ErrProductNotFound, productID, err)
	}
	if err != nil {
		return nil, err
	}
	return &domain.ProductSnapshot{
		ID:     product.ID,
		Name:   product.Name,
		ImgURL: product.ImgURL,
		Price:  product.Price,
	}, nil
}

// AuthenticatedUsers resolves callers to users.
type AuthenticatedUsers interface {
	Authenticated(ctx context.Context, principal identity.Principal) (*userdomain.User, error)
}

// Clients resolves the caller to the client placing an order.
type Clients struct {
	users AuthenticatedUsers
}

func NewClients(users AuthenticatedUsers) *Clients {
	return &Clients{users: users}
}

func (c *Clients) Authenticated(ctx context.Context, principal identity.Principal) (domain.Client, error) {
	user, err := c.users.Authenticated(ctx, principal)
	if err != nil {
		return domain.Client{}, err
	}
	return domain.Client{ID: user.ID, Name: user.Name}, nil
}

var (
	_ ports.ProductCatalog = (*Catalog)(nil)
	_ ports.ClientResolver = (*Clients)(nil)
)
