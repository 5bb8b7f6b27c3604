package types

// Expander turns one processing instruction into output written to the target's output sink.
type Expander func(t Target, instr Instruction)

// Expanders is the registry of template expanders keyed by tag name. Plugins receive it through the Endpoint so
// they can add their own tags.
type Expanders interface {
	Register(tag string, fn Expander) error
	Forget(tag string)
}
