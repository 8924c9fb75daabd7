// Package modkit wires API modules: shared deps, build options and the module contract
package modkit

import "rinkfeed/internal/modkit/module"

// Module is what the api root mounts
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
