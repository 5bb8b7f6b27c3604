package types

import "net/http"

// Endpoint is the serving endpoint handed to every plugin initializer once, after all plugins are loaded and
// before traffic is accepted. The engine passes it through without looking at it.
type Endpoint interface {
	// Handle adds a route to the web server
	Handle(path string, h http.Handler)

	// Expanders gives access to the template expander registry
	Expanders() Expanders

	// Addr is the address the server listens on
	Addr() string
}
