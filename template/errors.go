package template

import "errors"

var (
	ErrInvalidTagName = errors.New("invalid expander tag name")
	ErrNilExpander    = errors.New("nil expander")
	ErrNoTarget       = errors.New("missing render target")
	ErrBadSource      = errors.New("invalid template source file")
	ErrTooLarge       = errors.New("template source file too big")
)
