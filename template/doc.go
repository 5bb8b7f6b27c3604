// Package template expands the small <?hcv tag arg?> macro language used by the HTML files under the web root.
//
// A Registry maps tag names to expanders. ExpandFile reads a template source file line by line, copies literal text
// to the output and hands every processing instruction to the expander registered under its tag. Expanders write
// into the render target's output sink, which during a render is the same buffer the literal text goes to, so the
// result keeps source order.
//
// Registration replaces an existing expander of the same name. Dispatching an unknown tag, or reaching the end of a
// line inside unterminated markup, only logs a warning: the page degrades, the request goes on.
package template
