package hcv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	extism "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/spirefy/go-hcv/types"
)

// WasmLoader opens WebAssembly extension modules with extism. All modules share one compilation cache.
type WasmLoader struct {
	cache  wazero.CompilationCache
	logger *zap.Logger
}

// NewWasmLoader creates a loader. Close releases the compilation cache at shutdown.
func NewWasmLoader(logger *zap.Logger) *WasmLoader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WasmLoader{
		cache:  wazero.NewCompilationCache(),
		logger: logger.Named("wasm"),
	}
}

func (l *WasmLoader) Suffix() string {
	return ".wasm"
}

// Open
//
// Instantiates the module at path with WASI enabled and the host functions of this package. The module is kept
// instantiated for the life of the process.
func (l *WasmLoader) Open(ctx context.Context, path string) (Module, error) {
	manifest := extism.Manifest{
		Wasm: []extism.Wasm{
			extism.WasmFile{
				Path: path,
			},
		},
	}

	config := extism.PluginConfig{
		EnableWasi:    true,
		ModuleConfig:  wazero.NewModuleConfig(),
		RuntimeConfig: wazero.NewRuntimeConfig().WithCompilationCache(l.cache),
	}

	// The host functions need the module to find the endpoint and the plugin instance, and the plugin instance
	// only exists once extism.NewPlugin returns. So the module is created first and completed below.
	mod := &wasmModule{path: path, logger: l.logger.With(zap.String("path", path))}

	plugin, err := extism.NewPlugin(ctx, manifest, config, mod.hostFuncs())
	if err != nil {
		return nil, err
	}
	mod.plugin = plugin

	if name, ok := mod.nameLocked(); ok {
		mod.logger = mod.logger.With(zap.String("plugin", name))
	}

	return mod, nil
}

// Close releases the compilation cache.
func (l *WasmLoader) Close(ctx context.Context) error {
	return l.cache.Close(ctx)
}

// wasmModule serializes every call into its extism plugin, which is not safe for concurrent use.
type wasmModule struct {
	mu       sync.Mutex
	path     string
	plugin   *extism.Plugin
	endpoint types.Endpoint
	logger   *zap.Logger
}

func (m *wasmModule) String(symbol string) (string, bool) {
	if !m.plugin.FunctionExists(symbol) {
		return "", false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, out, err := m.plugin.Call(symbol, nil)
	if err != nil {
		m.logger.Warn("calling string export failed", zap.String("symbol", symbol), zap.Error(err))
		return "", false
	}
	return string(out), true
}

func (m *wasmModule) HasFunc(symbol string) bool {
	return m.plugin.FunctionExists(symbol)
}

// Initialize calls the web initializer export with a JSON ServeEvent. The endpoint stays reachable by the host
// functions afterwards.
func (m *wasmModule) Initialize(endpoint types.Endpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.endpoint = endpoint
	name, _ := m.nameLocked()
	payload, err := json.Marshal(types.ServeEvent{Plugin: name, Addr: endpoint.Addr()})
	if err != nil {
		return err
	}

	rc, _, err := m.plugin.Call(SymInitWeb, payload)
	if err != nil {
		return err
	}
	if rc != 0 {
		return fmt.Errorf("%s returned %d", SymInitWeb, rc)
	}
	return nil
}

func (m *wasmModule) nameLocked() (string, bool) {
	_, out, err := m.plugin.Call(SymName, nil)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// expander wraps a module export as a template expander. The export receives a JSON ExpandEvent and its output
// is written to the target as is.
func (m *wasmModule) expander(export string) types.Expander {
	return func(t types.Target, instr types.Instruction) {
		payload, err := json.Marshal(types.NewExpandEvent(t, instr))
		if err != nil {
			m.logger.Warn("encoding expand event failed", zap.String("tag", instr.Tag), zap.Error(err))
			return
		}

		m.mu.Lock()
		_, out, err := m.plugin.Call(export, payload)
		m.mu.Unlock()

		if err != nil {
			m.logger.Warn("plugin expander failed",
				zap.String("tag", instr.Tag),
				zap.String("export", export),
				zap.String("file", instr.File),
				zap.Int("line", instr.Line),
				zap.Error(err))
			return
		}

		_, _ = t.Output().Write(out)
	}
}
