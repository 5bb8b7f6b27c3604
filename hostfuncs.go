package hcv

import (
	"context"

	extism "github.com/extism/go-sdk"
	"go.uber.org/zap"
)

const hostNamespace = "extism:host/hcv"

// Host function results.
const (
	hostOK uint64 = iota
	hostFailed
)

// hostFuncs returns the functions a WASM module may import from the host. They are only useful while or after the
// module's web initializer runs, as that is when the module learns the endpoint.
func (m *wasmModule) hostFuncs() []extism.HostFunction {
	return []extism.HostFunction{m.RegisterExpander(), m.ForgetExpander(), m.Log()}
}

// RegisterExpander
//
// hcv_register_expander(tag, export) makes the module export the expander of tag. Every dispatch of the tag then
// calls the export.
func (m *wasmModule) RegisterExpander() extism.HostFunction {
	ret := extism.NewHostFunctionWithStack(
		"hcv_register_expander",
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			tag, err := p.ReadString(stack[0])
			if err != nil {
				m.logger.Warn("reading expander tag", zap.Error(err))
				stack[0] = hostFailed
				return
			}

			export, err := p.ReadString(stack[1])
			if err != nil {
				m.logger.Warn("reading expander export", zap.String("tag", tag), zap.Error(err))
				stack[0] = hostFailed
				return
			}

			if m.endpoint == nil {
				m.logger.Warn("expander registered before web initialization", zap.String("tag", tag))
				stack[0] = hostFailed
				return
			}

			if !m.plugin.FunctionExists(export) {
				m.logger.Warn("expander export not found", zap.String("tag", tag), zap.String("export", export))
				stack[0] = hostFailed
				return
			}

			if err := m.endpoint.Expanders().Register(tag, m.expander(export)); err != nil {
				m.logger.Warn("registering plugin expander", zap.String("tag", tag), zap.Error(err))
				stack[0] = hostFailed
				return
			}
			stack[0] = hostOK
		},
		[]extism.ValueType{extism.ValueTypeI64, extism.ValueTypeI64}, []extism.ValueType{extism.ValueTypeI64},
	)
	ret.SetNamespace(hostNamespace)

	return ret
}

// ForgetExpander
//
// hcv_forget_expander(tag) removes an expander, whoever registered it.
func (m *wasmModule) ForgetExpander() extism.HostFunction {
	ret := extism.NewHostFunctionWithStack(
		"hcv_forget_expander",
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			tag, err := p.ReadString(stack[0])
			if err != nil {
				m.logger.Warn("reading expander tag", zap.Error(err))
				stack[0] = hostFailed
				return
			}

			if m.endpoint == nil {
				m.logger.Warn("expander forgotten before web initialization", zap.String("tag", tag))
				stack[0] = hostFailed
				return
			}

			m.endpoint.Expanders().Forget(tag)
			stack[0] = hostOK
		},
		[]extism.ValueType{extism.ValueTypeI64}, []extism.ValueType{extism.ValueTypeI64},
	)
	ret.SetNamespace(hostNamespace)

	return ret
}

// Log
//
// hcv_log(message) writes message to the host log, tagged with the plugin name and path.
func (m *wasmModule) Log() extism.HostFunction {
	ret := extism.NewHostFunctionWithStack(
		"hcv_log",
		func(ctx context.Context, p *extism.CurrentPlugin, stack []uint64) {
			msg, err := p.ReadString(stack[0])
			if err != nil {
				m.logger.Warn("reading log message", zap.Error(err))
				stack[0] = hostFailed
				return
			}

			m.logger.Info(msg)
			stack[0] = hostOK
		},
		[]extism.ValueType{extism.ValueTypeI64}, []extism.ValueType{extism.ValueTypeI64},
	)
	ret.SetNamespace(hostNamespace)

	return ret
}
