package dscommerceserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	authapp "github.com/devsuperior/dscommerce/internal/domains/auth/application"
	catalogapp "github.com/devsuperior/dscommerce/internal/domains/catalog/application"
	ordersapp "github.com/devsuperior/dscommerce/internal/domains/orders/application"
	ordersports "github.com/devsuperior/dscommerce/internal/domains/orders/ports"
	usersapp "github.com/devsuperior/dscommerce/internal/domains/users/application"
	usersports "github.com/devsuperior/dscommerce/internal/domains/users/ports"
	apierrors "github.com/devsuperior/dscommerce/internal/shared/errors"
	"github.com/devsuperior/dscommerce/internal/shared/validation"
)

var problems = NewProblemResponder()

// NewProblemResponder maps service errors onto RFC 7807 problems.
func NewProblemResponder() *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("",
		mapValidation,
		apierrors.MapSentinel(catalogapp.ErrResourceNotFound, apierrors.ErrNotFound),
		apierrors.MapSentinel(ordersapp.ErrResourceNotFound, apierrors.ErrNotFound),
		apierrors.MapSentinel(ordersports.ErrProductNotFound, apierrors.ErrNotFound),
		apierrors.MapSentinel(catalogapp.ErrDatabaseConstraint, apierrors.ErrDatabaseConstraint),
		apierrors.MapSentinel(authapp.ErrForbidden, apierrors.ErrForbidden),
		apierrors.MapSentinel(usersapp.ErrUserNotFound, apierrors.ErrUnauthorized),
		apierrors.MapSentinel(usersapp.ErrInvalidCredentials, apierrors.ErrUnauthorized),
		apierrors.MapSentinel(usersports.ErrInvalidToken, apierrors.ErrUnauthorized),
		apierrors.MapSentinel(catalogapp.ErrInvalidInput, apierrors.ErrValidation),
		apierrors.MapSentinel(ordersapp.ErrInvalidInput, apierrors.ErrValidation),
	)
}

func mapValidation(err error) (apierrors.ProblemDetail, bool) {
	verr, ok := validation.As(err)
	if !ok {
		return apierrors.ProblemDetail{}, false
	}
	fields := verr.Fields()
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Field)
	}
	return apierrors.NewValidationProblem(verr.Messages(), keys...), true
}

// respondServiceError records err on the context for the access log and
// renders the mapped problem.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	problems.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	problems.BadRequest(c, err.Error())
}

func respondNotFoundRoute(c *gin.Context) {
	problems.Respond(c, apierrors.ErrNotFound.WithDetail("no handler for "+c.Request.Method+" "+c.Request.URL.Path))
}

var errMissingBody = errors.New("request body is required")
