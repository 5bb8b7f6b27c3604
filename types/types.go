package types

import (
	"io"
	"net/http"
)

// TargetKind tells a usable render target apart from an empty one.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetHTTP
)

func (k TargetKind) String() string {
	switch k {
	case TargetHTTP:
		return "http"
	default:
		return "none"
	}
}

// Target is the per request object templates are rendered for.
type Target interface {
	Kind() TargetKind

	// Serial is the process wide request number
	Serial() int64

	// Output is where expanders write their text
	Output() io.Writer

	Request() *http.Request
}

// Location points at a processing instruction in a template source file.
type Location struct {
	File string `json:"file" yaml:"file"`
	// 1-based
	Line int `json:"line" yaml:"line"`
	// byte offset of the start of the line within the file
	Offset int64 `json:"offset" yaml:"offset"`
}

// Instruction is one parsed <?hcv tag arg?> unit.
type Instruction struct {
	Tag string `json:"tag" yaml:"tag"`
	Arg string `json:"arg" yaml:"arg"`
	// the whole markup including the start and end tokens
	Raw string `json:"raw" yaml:"raw"`
	Location
}
