package ports

import (
	"context"

	"github.com/devsuperior/dscommerce/internal/domains/users/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Authenticated(ctx context.Context, principal identity.Principal) (*domain.User, error)
	LoadUserByUsername(ctx context.Context, username string) (*domain.UserDetails, error)
	GetMe(ctx context.Context, principal identity.Principal) (*types.UserDTO, error)
	Login(ctx context.Context, username, password string) (*types.AccessToken, error)
	Logout(ctx context.Context, principal identity.Principal) error
	Resolve(ctx context.Context, token string) (identity.Principal, error)
}
