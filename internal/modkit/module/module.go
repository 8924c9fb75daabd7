// Package module defines the contract every API module satisfies
package module

import (
	phttp "rinkfeed/internal/platform/net/http"
)

// Module mounts routes and exposes a port set for cross wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
