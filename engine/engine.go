package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/syscalls"
)

// HostModule is the import namespace guest programs bind syscalls from.
const HostModule = "env"

// Engine owns the wazero runtime and the host module exposing the dispatch
// table. One engine serves many modules and executions; executions on the
// same engine must not run concurrently because the host module resolves
// its per-execution state from the call context.
type Engine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation.
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages
	// (64KiB each). 0 means wazero's default (65536 pages = 4GiB).
	MemoryLimitPages uint32
}

// NewEngine creates a wazero-backed engine and instantiates the host module
// with every dispatch table entry.
func NewEngine(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	e := &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg)}
	if err := e.bindHostModule(ctx); err != nil {
		_ = e.runtime.Close(ctx)
		return nil, err
	}
	return e, nil
}

// Close releases the runtime and everything instantiated on it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// execScope is the per-execution payload carried through the context into
// host functions.
type execScope struct {
	state *bridge.State
	mem   *guestMemory
}

type execScopeKey struct{}

func scopeFrom(ctx context.Context) (*execScope, bool) {
	s, ok := ctx.Value(execScopeKey{}).(*execScope)
	return s, ok
}

func withScope(ctx context.Context, s *execScope) context.Context {
	return context.WithValue(ctx, execScopeKey{}, s)
}

func (e *Engine) bindHostModule(ctx context.Context) error {
	builder := e.runtime.NewHostModuleBuilder(HostModule)
	for _, entry := range syscalls.Table() {
		entry := entry
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				hostCall(ctx, mod, stack, entry)
			}), wazeroTypes(entry.Signature.Params), wazeroResults(entry.Signature)).
			Export(entry.Name)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Instantiation(err)
	}
	Logger().Debug("host module bound", zap.Int("entries", len(syscalls.Table())))
	return nil
}

// hostCall adapts one wazero host invocation to the dispatch entry. A fatal
// syscall failure panics to unwind the guest; wazero surfaces the panic as
// the error of the export call on Execute's side.
func hostCall(ctx context.Context, mod api.Module, stack []uint64, entry *syscalls.Entry) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		panic(errors.Unreachable("host call %q outside an execution scope", entry.Name))
	}
	scope.mem.bind(mod.Memory())

	args := make([]uint64, len(entry.Signature.Params))
	copy(args, stack)

	v, err := entry.Invoke(scope.state, args)
	if err != nil {
		panic(err)
	}
	if entry.Signature.Result != nil {
		stack[0] = v
	}
}

func wazeroTypes(params []syscalls.ValueType) []api.ValueType {
	out := make([]api.ValueType, len(params))
	for i, p := range params {
		if p == syscalls.I64 {
			out[i] = api.ValueTypeI64
		} else {
			out[i] = api.ValueTypeI32
		}
	}
	return out
}

func wazeroResults(sig syscalls.Signature) []api.ValueType {
	if sig.Result == nil {
		return nil
	}
	return wazeroTypes([]syscalls.ValueType{*sig.Result})
}
