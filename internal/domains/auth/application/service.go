package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/devsuperior/dscommerce/internal/domains/auth/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// ErrForbidden signals the caller may not act on the target user's data.
var ErrForbidden = errors.New("access denied")

type Service struct {
	users ports.UserResolver
}

func NewService(users ports.UserResolver) *Service {
	return &Service{users: users}
}

// ValidateSelfOrAdmin succeeds when the caller is userID or holds the admin
// role. Failures resolving the caller are returned unchanged.
func (s *Service) ValidateSelfOrAdmin(ctx context.Context, principal identity.Principal, userID int64) error {
	me, err := s.users.Authenticated(ctx, principal)
	if err != nil {
		return err
	}
	if me.ID == userID || me.IsAdmin() {
		return nil
	}
	return fmt.Errorf("%w: user %d", ErrForbidden, userID)
}

var _ ports.Service = (*Service)(nil)
