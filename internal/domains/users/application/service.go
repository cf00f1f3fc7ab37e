package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devsuperior/dscommerce/internal/domains/users/application/types"
	"github.com/devsuperior/dscommerce/internal/domains/users/domain"
	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo      ports.Repository
	sessions  ports.SessionStore
	passwords ports.PasswordEncoder
	tokens    ports.TokenIssuer
}

func NewService(repo ports.Repository, sessions ports.SessionStore, passwords ports.PasswordEncoder, tokens ports.TokenIssuer) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions, passwords: passwords, tokens: tokens}
}

// Authenticated resolves the caller to a stored user. An anonymous principal
// and an unknown username both yield ErrUserNotFound.
func (s *Service) Authenticated(ctx context.Context, principal identity.Principal) (*domain.User, error) {
	if !principal.IsAuthenticated() {
		return nil, userNotFound("no authenticated user")
	}
	user, err := s.repo.FindByEmail(ctx, principal.Username)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, userNotFound(principal.Username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// LoadUserByUsername folds the login projection into a single principal.
func (s *Service) LoadUserByUsername(ctx context.Context, username string) (*domain.UserDetails, error) {
	rows, err := s.repo.SearchUserAndRolesByEmail(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, userNotFound("email not found")
	}
	return domain.FoldUserDetails(rows)
}

func (s *Service) GetMe(ctx context.Context, principal identity.Principal) (*types.UserDTO, error) {
	user, err := s.Authenticated(ctx, principal)
	if err != nil {
		return nil, err
	}
	return types.FromUser(user), nil
}

// Login checks the password against the stored hash and issues a tracked token.
func (s *Service) Login(ctx context.Context, username, password string) (*types.AccessToken, error) {
	if s.passwords == nil || s.tokens == nil {
		return nil, errors.New("login is not configured")
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	details, err := s.LoadUserByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.passwords.Matches(password, details.Password) {
		return nil, ErrInvalidCredentials
	}
	issued, err := s.tokens.Issue(identity.New(details.Username, details.Authorities()...))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.sessions.Save(ctx, details.Username, issued.ID, issued.ExpiresAt); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	return &types.AccessToken{
		Value:     issued.Value,
		Type:      "Bearer",
		ExpiresAt: issued.ExpiresAt,
		Scope:     []string{"read", "write"},
	}, nil
}

// Logout revokes every session of the caller. Anonymous callers are a no-op.
func (s *Service) Logout(ctx context.Context, principal identity.Principal) error {
	if !principal.IsAuthenticated() {
		return nil
	}
	if err := s.sessions.Delete(ctx, principal.Username); err != nil {
		return fmt.Errorf("revoke sessions of %s: %w", principal.Username, err)
	}
	return nil
}

// Resolve verifies a bearer token and checks that its session was not revoked.
func (s *Service) Resolve(ctx context.Context, token string) (identity.Principal, error) {
	if s.tokens == nil {
		return identity.Anonymous(), ports.ErrInvalidToken
	}
	principal, tokenID, err := s.tokens.Verify(token)
	if err != nil {
		return identity.Anonymous(), err
	}
	live, err := s.sessions.Exists(ctx, tokenID)
	if err != nil {
		return identity.Anonymous(), err
	}
	if !live {
		return identity.Anonymous(), fmt.Errorf("%w: session revoked", ports.ErrInvalidToken)
	}
	return principal, nil
}

var _ ports.Service = (*Service)(nil)
