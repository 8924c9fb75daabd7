package httpkit

import (
	"net/http"

	pstrings "rinkfeed/internal/platform/strings"
)

// APIVersion is the only published version of the rinkfeed API
const APIVersion = "v1"

// MountUnder registers mount on a subrouter at prefix with mw applied first
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(pstrings.MustPrefix(prefix), func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// MountAPIV1 mounts the versioned API tree under /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountUnder(r, "/api/"+APIVersion, mw, mount)
}
