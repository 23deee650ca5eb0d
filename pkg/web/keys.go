package web

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-Id"

// WithChiRequestID stores the ID under chi's key so middleware.GetReqID finds it.
func WithChiRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, middleware.RequestIDKey, id)
}
