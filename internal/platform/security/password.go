package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

// BcryptEncoder hashes passwords with bcrypt.
type BcryptEncoder struct {
	cost int
}

func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

func (e *BcryptEncoder) Encode(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (e *BcryptEncoder) Matches(raw, encoded string) bool {
	if encoded == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
}

var _ ports.PasswordEncoder = (*BcryptEncoder)(nil)
