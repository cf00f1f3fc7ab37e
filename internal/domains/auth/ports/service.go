package ports

import (
	"context"

	userdomain "github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// UserResolver resolves the caller to a stored user.
type UserResolver interface {
	Authenticated(ctx context.Context, principal identity.Principal) (*userdomain.User, error)
}

// Service is the authorization gate shared by other contexts.
type Service interface {
	ValidateSelfOrAdmin(ctx context.Context, principal identity.Principal, userID int64) error
}
