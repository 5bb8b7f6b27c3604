// Package hcv loads extension modules into the running server and hands them the serving endpoint.
//
// An extension module is requested by name. The Engine maps the name to a file, opens it through a Loader,
// checks that the module honours the extension contract and keeps it for the life of the process. Once every
// module is loaded the server calls InitializeAllForServing, which gives each module, in load order, the chance to
// add routes and template expanders.
//
// Two loaders exist: WasmLoader runs WebAssembly modules with extism, NativeLoader opens Go plugins built with
// -buildmode=plugin. Every error returned while loading is meant to stop the process: plugin configuration is part
// of the deployment, not something to recover from at runtime.
package hcv
