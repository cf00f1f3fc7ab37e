package ports

import (
	"context"
	"errors"

	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
)

var ErrNotFound = errors.New("user not found")

// Repository reads user accounts and the login projection.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// SearchUserAndRolesByEmail returns one row per role held by the user;
	// an unknown email yields no rows and no error.
	SearchUserAndRolesByEmail(ctx context.Context, email string) ([]domain.UserDetailsRow, error)
}
