package hcv

import (
	"context"
	"plugin"

	"github.com/spirefy/go-hcv/types"
)

// nativeSymbols maps the contract symbols to the identifiers a Go plugin exports. String symbols are package
// level string variables, the initializer is a func(types.Endpoint).
var nativeSymbols = map[string]string{
	SymName:    "HcvpluginName",
	SymLicense: "HcvpluginGPLCompatibleLicense",
	SymGitAPI:  "HcvpluginGitAPI",
	SymVersion: "HcvpluginVersion",
	SymInitWeb: "HcvpluginInitializeWeb",
}

// NativeLoader opens Go plugins built with -buildmode=plugin against the same version of this module.
type NativeLoader struct{}

func (NativeLoader) Suffix() string {
	return ".so"
}

func (NativeLoader) Open(_ context.Context, path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &nativeModule{plugin: p}, nil
}

type nativeModule struct {
	plugin *plugin.Plugin
}

func (m *nativeModule) lookup(symbol string) (plugin.Symbol, bool) {
	name, ok := nativeSymbols[symbol]
	if !ok {
		return nil, false
	}

	sym, err := m.plugin.Lookup(name)
	if err != nil {
		return nil, false
	}
	return sym, true
}

func (m *nativeModule) String(symbol string) (string, bool) {
	sym, ok := m.lookup(symbol)
	if !ok {
		return "", false
	}

	s, ok := sym.(*string)
	if !ok || s == nil {
		return "", false
	}
	return *s, true
}

func (m *nativeModule) initializer() (func(types.Endpoint), bool) {
	sym, ok := m.lookup(SymInitWeb)
	if !ok {
		return nil, false
	}

	fn, ok := sym.(func(types.Endpoint))
	return fn, ok && fn != nil
}

func (m *nativeModule) HasFunc(symbol string) bool {
	if symbol != SymInitWeb {
		_, ok := m.lookup(symbol)
		return ok
	}

	_, ok := m.initializer()
	return ok
}

func (m *nativeModule) Initialize(endpoint types.Endpoint) error {
	fn, ok := m.initializer()
	if !ok {
		return ErrMissingSymbol
	}

	fn(endpoint)
	return nil
}
