package types

// ExpandEvent is the payload sent to a WASM module export registered as an expander.
type ExpandEvent struct {
	Tag    string `json:"tag"`
	Arg    string `json:"arg"`
	File   string `json:"file"`
	Line   int    `json:"line"`
	Offset int64  `json:"offset"`
	Serial int64  `json:"serial"`
}

// NewExpandEvent builds the payload for one dispatch.
func NewExpandEvent(t Target, instr Instruction) ExpandEvent {
	return ExpandEvent{
		Tag:    instr.Tag,
		Arg:    instr.Arg,
		File:   instr.File,
		Line:   instr.Line,
		Offset: instr.Offset,
		Serial: t.Serial(),
	}
}

// ServeEvent is the payload sent to a WASM module's web initializer.
type ServeEvent struct {
	Plugin string `json:"plugin"`
	Addr   string `json:"addr"`
}
