package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devsuperior/dscommerce/internal/domains/users/ports"
	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "dscommerce"
)

type accessClaims struct {
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 access tokens carrying the username and authorities.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type JWTOption func(*JWTIssuer)

func WithTTL(ttl time.Duration) JWTOption {
	return func(i *JWTIssuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) JWTOption {
	return func(i *JWTIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewJWTIssuer(secret string, opts ...JWTOption) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	issuer := &JWTIssuer{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

func (i *JWTIssuer) Issue(principal identity.Principal) (ports.IssuedToken, error) {
	if !principal.IsAuthenticated() {
		return ports.IssuedToken{}, errors.New("cannot issue a token for an anonymous principal")
	}
	now := i.now()
	expiresAt := now.Add(i.ttl)
	id := uuid.NewString()
	claims := accessClaims{
		Authorities: principal.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    i.issuer,
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return ports.IssuedToken{}, err
	}
	return ports.IssuedToken{Value: signed, ID: id, ExpiresAt: expiresAt}, nil
}

func (i *JWTIssuer) Verify(token string) (identity.Principal, string, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return identity.Anonymous(), "", fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return identity.Anonymous(), "", fmt.Errorf("%w: missing subject or id", ports.ErrInvalidToken)
	}
	return identity.New(claims.Subject, claims.Authorities...), claims.ID, nil
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)
