package dscommerceserver

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	usersports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

const grantTypePassword = "password"

// AuthAPI issues and revokes access tokens.
type AuthAPI struct {
	service usersports.Service
	now     func() time.Time
}

func NewAuthAPI(service usersports.Service) AuthAPI {
	return AuthAPI{service: service, now: time.Now}
}

// Post /oauth2/token
// Exchanges username and password for a bearer token
func (api *AuthAPI) IssueToken(c *gin.Context) {
	var req TokenRequest
	var err error
	if c.ContentType() == binding.MIMEJSON {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindWith(&req, binding.Form)
	}
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.GrantType != "" && req.GrantType != grantTypePassword {
		respondBadRequest(c, errors.New("unsupported grant_type "+req.GrantType))
		return
	}
	token, err := api.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	now := api.now
	if now == nil {
		now = time.Now
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token.Value,
		TokenType:   token.Type,
		ExpiresIn:   int64(math.Max(0, token.ExpiresAt.Sub(now()).Seconds())),
		Scope:       strings.Join(token.Scope, " "),
	})
}

// Post /oauth2/revoke
// Ends every session of the caller
func (api *AuthAPI) RevokeToken(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), PrincipalFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
