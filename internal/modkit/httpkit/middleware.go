package httpkit

import (
	"net/http"
	"time"

	"rinkfeed/internal/platform/net/middleware"
)

// RequestTimeout bounds every API request; combine can hit the upstream twice
const RequestTimeout = 90 * time.Second

// CommonStack is the per scope middleware for API routes.
// RequestID, access logging and recovery live on the server root
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Timeout(RequestTimeout),
	}
}
