package hcv

import (
	"context"

	"github.com/spirefy/go-hcv/types"
)

// Well known symbols every extension module exports. The values are the WASM export names; NativeLoader maps them
// to exported Go identifiers.
const (
	SymName    = "hcvplugin_name"
	SymLicense = "hcvplugin_gpl_compatible_license"
	SymGitAPI  = "hcvplugin_gitapi"
	SymVersion = "hcvplugin_version"
	SymInitWeb = "hcvplugin_initialize_web"
)

// Loader opens extension module files of one kind.
type Loader interface {
	// Suffix is the file extension of the modules this loader opens
	Suffix() string

	Open(ctx context.Context, path string) (Module, error)
}

// Module is an opened extension module. Nothing outside this package sees one: the engine keeps it behind the
// validated Plugin record.
type Module interface {
	// String returns the value of a string symbol
	String(symbol string) (string, bool)

	// HasFunc reports whether the module exports the entry point symbol
	HasFunc(symbol string) bool

	// Initialize calls the module's web initializer
	Initialize(endpoint types.Endpoint) error
}
