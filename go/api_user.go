package dscommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
)

// UserAPI exposes the caller's own account.
type UserAPI struct {
	service usersports.Service
}

func NewUserAPI(service usersports.Service) UserAPI {
	return UserAPI{service: service}
}

// Get /users/me
// Returns the authenticated user
func (api *UserAPI) GetMe(c *gin.Context) {
	me, err := api.service.GetMe(c.Request.Context(), PrincipalFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
