package dscommerceserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devsuperior/dscommerce/internal/shared/identity"
)

const principalKey = "dscommerce.principal"

// TokenResolver turns a bearer token into the caller's principal.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (identity.Principal, error)
}

// Access describes who may call a route.
type Access struct {
	authenticated bool
	authorities   []string
}

var (
	// Public routes need no token.
	Public = Access{}
	// Authenticated routes need any valid token.
	Authenticated = Access{authenticated: true}
)

// RequireAuthority admits callers holding at least one of the authorities.
func RequireAuthority(authorities ...string) Access {
	return Access{authenticated: true, authorities: authorities}
}

// Security guards protected routes.
type Security struct {
	tokens TokenResolver
}

func NewSecurity(tokens TokenResolver) Security {
	return Security{tokens: tokens}
}

func (s Security) chain(access Access) []gin.HandlerFunc {
	if !access.authenticated {
		return nil
	}
	handlers := []gin.HandlerFunc{s.authenticate}
	if len(access.authorities) > 0 {
		handlers = append(handlers, authorize(access.authorities))
	}
	return handlers
}

func (s Security) authenticate(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		problems.Unauthorized(c, "full authentication is required to access this resource")
		return
	}
	if s.tokens == nil {
		problems.Unauthorized(c, "token verification is not configured")
		return
	}
	principal, err := s.tokens.Resolve(c.Request.Context(), token)
	if err != nil {
		problems.Unauthorized(c, err.Error())
		return
	}
	c.Set(principalKey, principal)
	c.Next()
}

func authorize(authorities []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFrom(c).HasAnyAuthority(authorities...) {
			problems.Forbidden(c, "access denied")
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the caller established by authentication, or the
// anonymous principal on public routes.
func PrincipalFrom(c *gin.Context) identity.Principal {
	if v, ok := c.Get(principalKey); ok {
		if principal, ok := v.(identity.Principal); ok {
			return principal
		}
	}
	return identity.Anonymous()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
