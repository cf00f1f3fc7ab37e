package dscommerceserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/application/types"
	catalogports "github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with the catalog product service.
type ProductAPI struct {
	service catalogports.ProductService
}

func NewProductAPI(service catalogports.ProductService) ProductAPI {
	return ProductAPI{service: service}
}

// Get /products
// Searches products by name, one page at a time
func (api *ProductAPI) FindAll(c *gin.Context) {
	page, err := parsePageable(c, catalogports.ProductSortFields...)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.FindAll(c.Request.Context(), c.Query("name"), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /products/:id
// Find product by ID
func (api *ProductAPI) FindByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.FindByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Post /products
// Adds a product to the catalog
func (api *ProductAPI) Insert(c *gin.Context) {
	var payload types.ProductDTO
	if !bindJSON(c, &payload) {
		return
	}
	created, err := api.service.Insert(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/products/%d", created.ID))
	c.JSON(http.StatusCreated, created)
}

// Put /products/:id
// Replaces the editable fields of a product
func (api *ProductAPI) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload types.ProductDTO
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete /products/:id
// Deletes a product that no order references
func (api *ProductAPI) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
