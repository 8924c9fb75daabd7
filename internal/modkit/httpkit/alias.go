// Package httpkit re-exports the platform http surface for modules
// so module code never imports internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "rinkfeed/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope
	Envelope = phttp.Envelope

	// Page is list pagination metadata
	Page = phttp.Page

	// Response is a status plus body
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error maps err to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// List returns a 200 response with items and page metadata
func List(items any, p Page) Response { return phttp.List(items, p) }

// JSON binds a validated T body before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler { return phttp.JSONHandler(fn) }

// Call adapts a handler that takes no body
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.CallHandler(fn) }

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Param returns a chi URL param
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
