package dscommerceserver

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/devsuperior/dscommerce/internal/shared/pagination"
)

// parseIDParam binds a simple-style int64 path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondBadRequest(c, fmt.Errorf("invalid %s: %w", name, err))
		return 0, false
	}
	return id, true
}

// parsePageable reads page, size and sort query parameters. Page numbers
// start at zero.
func parsePageable(c *gin.Context, sortFields ...string) (pagination.Pageable, error) {
	var page pagination.Pageable
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > pagination.MaxPage {
			return pagination.Pageable{}, fmt.Errorf("invalid page %q", raw)
		}
		page.Page = n
	}
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return pagination.Pageable{}, fmt.Errorf("invalid size %q", raw)
		}
		page.Size = n
	}
	sort, err := pagination.ParseSort(c.Query("sort"), sortFields...)
	if err != nil {
		return pagination.Pageable{}, err
	}
	page.Sort = sort
	return page.Normalize(), nil
}

// bindJSON decodes the request body, reporting an empty body plainly.
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		if errors.Is(err, io.EOF) {
			err = errMissingBody
		}
		respondBadRequest(c, err)
		return false
	}
	return true
}
