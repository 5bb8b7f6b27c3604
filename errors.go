package hcv

import "errors"

var (
	ErrInvalidPluginName  = errors.New("invalid plugin name")
	ErrDuplicatePlugin    = errors.New("duplicate plugin")
	ErrLoadFailed         = errors.New("plugin load failed")
	ErrMissingSymbol      = errors.New("plugin is missing a required symbol")
	ErrNameMismatch       = errors.New("plugin declares an unexpected name")
	ErrMissingLicense     = errors.New("plugin declares no license")
	ErrNilEndpoint        = errors.New("nil serving endpoint")
	ErrAlreadyInitialized = errors.New("plugins already initialized for serving")
)
