package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder provides methods to send Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
	// Logger receives unmapped errors before they are rendered as 500s.
	Logger *slog.Logger
}

// NewResponder creates a new problem responder with optional base URI.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts an error to a ProblemDetail and responds.
// Errors that are not already problems become an opaque 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	if r.Logger != nil {
		r.Logger.LogAttrs(c.Request.Context(), slog.LevelError, "unhandled request error",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	r.Respond(c, ErrInternal.WithDetail("unexpected error"))
}

// BadRequest sends a 400 problem response.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// Unauthorized sends a 401 problem response.
func (r *Responder) Unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="dscommerce"`)
	r.Respond(c, ErrUnauthorized.WithDetail(detail))
}

// Forbidden sends a 403 problem response.
func (r *Responder) Forbidden(c *gin.Context, detail string) {
	r.Respond(c, ErrForbidden.WithDetail(detail))
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// MapSentinel builds a mapper that matches target with errors.Is and
// renders problem, using the error text as detail.
func MapSentinel(target error, problem ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, target) {
			return ProblemDetail{}, false
		}
		return problem.WithDetail(err.Error()), true
	}
}

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// Resolve runs the mapper chain without writing a response.
func (r *ChainedResponder) Resolve(err error) (ProblemDetail, bool) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem, true
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem, true
	}
	return ProblemDetail{}, false
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	if problem, ok := r.Resolve(err); ok {
		r.Respond(c, problem)
		return
	}
	r.Responder.RespondError(c, err)
}
