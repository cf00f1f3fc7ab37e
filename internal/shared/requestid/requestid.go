// Package requestid propagates the inbound request id through contexts.
package requestid

import "context"

// Header is the HTTP header carrying the request id.
const Header = "X-Request-ID"

type ctxKey struct{}

// WithID stores the request id on the context.
func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id, or "" when none was set.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
