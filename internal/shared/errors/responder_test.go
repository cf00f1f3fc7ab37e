package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing thing")

func serveError(t *testing.T, responder *ChainedResponder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/things/7", func(c *gin.Context) { responder.RespondError(c, err) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/things/7", nil)
	router.ServeHTTP(rec, req)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponderMapsWrappedSentinel(t *testing.T) {
	responder := NewChainedResponder("", MapSentinel(errMissing, ErrNotFound))

	rec, problem := serveError(t, responder, fmt.Errorf("lookup 7: %w", errMissing))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeNotFound, problem.Type)
	assert.Equal(t, "lookup 7: missing thing", problem.Detail)
	assert.Equal(t, "/things/7", problem.Instance)
}

func TestChainedResponderFallsBackToInternal(t *testing.T) {
	responder := NewChainedResponder("https://dscommerce.dev", MapSentinel(errMissing, ErrNotFound))

	rec, problem := serveError(t, responder, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "https://dscommerce.dev"+TypeInternal, problem.Type)
	assert.Equal(t, "unexpected error", problem.Detail)
}

func TestValidationProblemListsFieldsInOrder(t *testing.T) {
	problem := NewValidationProblem(map[string]string{
		"price": "must be positive",
		"name":  "must have 3 to 80 characters",
	})

	require.Len(t, problem.Errors, 2)
	assert.Equal(t, "name", problem.Errors[0].FieldName)
	assert.Equal(t, "price", problem.Errors[1].FieldName)
	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
}

func TestResolveUnwrapsProblems(t *testing.T) {
	responder := NewChainedResponder("")

	problem, ok := responder.Resolve(fmt.Errorf("wrap: %w", ErrForbidden))
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, problem.Status)

	_, ok = responder.Resolve(errors.New("plain"))
	assert.False(t, ok)
}
