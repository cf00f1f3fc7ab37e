package ports

import (
	"errors"
	"time"

	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// PasswordEncoder hashes and verifies passwords.
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(raw, encoded string) bool
}

// IssuedToken is a signed access token plus the metadata needed to track it.
type IssuedToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(principal identity.Principal) (IssuedToken, error)
	// Verify returns the principal and token id, or ErrInvalidToken.
	Verify(token string) (identity.Principal, string, error)
}
