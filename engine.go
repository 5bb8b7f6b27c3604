package hcv

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/spirefy/go-hcv/types"
)

// MaxPluginNameLen bounds the length of a plugin name.
const MaxPluginNameLen = 64

type (
	// Plugin is the record of one loaded extension module. It owns the module for the life of the process.
	Plugin struct {
		Details types.Details
		module  Module
	}

	// Engine is the registry of loaded extension modules, kept in load order.
	Engine struct {
		mu          sync.Mutex
		plugins     []*Plugin
		byName      map[string]*Plugin
		loader      Loader
		prefix      string
		buildID     string
		initialized bool
		logger      *zap.Logger
	}

	// Options configure an Engine.
	Options struct {
		// Loader opens the module files. It is required.
		Loader Loader

		// Prefix is prepended to a plugin name to form its path; the loader's suffix is appended.
		Prefix string

		// BuildID is compared with the contract version of every module. Defaults to BuildID().
		BuildID string

		Logger *zap.Logger
	}
)

// NewEngine
//
// This function will create a new plugin engine instance with no plugins loaded. It panics without a Loader, as
// every path and every load goes through it.
func NewEngine(opts Options) *Engine {
	if opts.Loader == nil {
		panic("hcv: NewEngine needs a Loader")
	}

	if opts.BuildID == "" {
		opts.BuildID = BuildID()
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Engine{
		byName:  make(map[string]*Plugin),
		loader:  opts.Loader,
		prefix:  opts.Prefix,
		buildID: opts.BuildID,
		logger:  opts.Logger.Named("plugins"),
	}
}

// ValidPluginName reports whether name may be used to build a plugin path: non empty, at most MaxPluginNameLen
// bytes of ASCII letters, digits and underscores.
func ValidPluginName(name string) bool {
	if name == "" || len(name) > MaxPluginNameLen {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}

// Path returns the file a plugin of that name is loaded from.
func (e *Engine) Path(name string) string {
	return e.prefix + name + e.loader.Suffix()
}

// Load
//
// This method will open the plugin called name, check its contract and append it to the engine's plugins. The
// name is checked before it gets anywhere near the filesystem. Loading a name twice is an error, as is any failure
// to open or validate the module; the caller is expected to stop the process.
func (e *Engine) Load(ctx context.Context, name string) error {
	if !ValidPluginName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPluginName, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Debug("loading plugin", zap.String("plugin", name))

	if _, ok := e.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}

	path := e.Path(name)
	mod, err := e.loader.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %s from %s: %w", ErrLoadFailed, name, path, err)
	}

	details, err := checkContract(mod, name, path, e.buildID, e.logger)
	if err != nil {
		return err
	}

	p := &Plugin{Details: details, module: mod}
	e.plugins = append(e.plugins, p)
	e.byName[name] = p

	e.logger.Debug("plugin loaded", zap.String("plugin", name), zap.Int("rank", len(e.plugins)))
	return nil
}

// InitializeAllForServing
//
// This method will call the web initializer of every loaded plugin, in load order, with the serving endpoint. It
// may only run once per engine. Initializers run outside the engine lock so they can use the engine themselves.
// With no plugins loaded it does nothing.
func (e *Engine) InitializeAllForServing(endpoint types.Endpoint) error {
	if endpoint == nil {
		return ErrNilEndpoint
	}

	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return ErrAlreadyInitialized
	}
	e.initialized = true
	plugins := slices.Clone(e.plugins)
	e.mu.Unlock()

	e.logger.Debug("initializing plugins for web", zap.Int("plugins", len(plugins)))
	if len(plugins) == 0 {
		return nil
	}

	for _, p := range plugins {
		if err := p.module.Initialize(endpoint); err != nil {
			return fmt.Errorf("initializing plugin %s: %w", p.Details.Name, err)
		}
		e.logger.Info("initialized plugin", zap.String("plugin", p.Details.Name))
	}

	e.logger.Info("plugins initialized for web", zap.Int("plugins", len(plugins)))
	return nil
}

// Plugins returns the details of the loaded plugins in load order.
func (e *Engine) Plugins() []types.Details {
	e.mu.Lock()
	defer e.mu.Unlock()

	details := make([]types.Details, 0, len(e.plugins))
	for _, p := range e.plugins {
		details = append(details, p.Details)
	}
	return details
}

// Lookup returns the details of the plugin loaded under name.
func (e *Engine) Lookup(name string) (types.Details, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.byName[name]
	if !ok {
		return types.Details{}, false
	}
	return p.Details, true
}
