// Package net carries request scoped values shared by transport and logging
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"rinkfeed/internal/platform/logger"
)

// WithRequestID stores the id where chi and the logger both find it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on the context, "" when absent
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
