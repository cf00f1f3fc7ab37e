package dscommerceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogports "github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
)

type CategoryAPI struct {
	service catalogports.CategoryService
}

func NewCategoryAPI(service catalogports.CategoryService) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /categories
// Lists every category
func (api *CategoryAPI) FindAll(c *gin.Context) {
	categories, err := api.service.FindAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
