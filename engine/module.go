package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
)

// Module is a compiled guest program. It is reusable: each Execute call
// creates a fresh instance with fresh linear memory.
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// LoadModule compiles a guest binary. The module may import any subset of
// the dispatch table from the "env" namespace.
func (e *Engine) LoadModule(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	return &Module{engine: e, compiled: compiled}, nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// ExecSettings tunes one execution. The zero value is usable.
type ExecSettings struct {
	// Costs overrides the gas schedule; nil means gas.DefaultSchedule.
	Costs *gas.Schedule
	// Forbidden lists dispatch entries that trap when the guest calls
	// them during this execution.
	Forbidden []string
}

// Result reports how an execution ended.
type Result struct {
	Termination bridge.TerminationReason
	GasLeft     uint64
}

// Execute instantiates the module and runs the named export against ext.
// The returned error covers engine-level failures only (instantiation,
// missing export); everything the guest or the host operations did, fatal
// or not, is reported through Result.Termination.
func (m *Module) Execute(ctx context.Context, entry string, ext host.Externalities, settings *ExecSettings) (*Result, error) {
	if settings == nil {
		settings = &ExecSettings{}
	}

	mem := &guestMemory{}
	state := bridge.NewState(ext, mem, settings.Costs)
	state.Forbid(settings.Forbidden...)
	ctx = withScope(ctx, &execScope{state: state, mem: mem})

	inst, err := m.engine.runtime.InstantiateModule(ctx, m.compiled,
		wazero.NewModuleConfig().WithName("").WithStartFunctions())
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	defer inst.Close(ctx)
	mem.bind(inst.Memory())

	fn := inst.ExportedFunction(entry)
	if fn == nil {
		return nil, errors.New(errors.PhaseEngine, errors.KindLoad).
			Detail("module has no export %q", entry).
			Build()
	}

	_, callErr := fn.Call(ctx)

	reason, terminated := state.Termination()
	switch {
	case terminated:
		// Fatal syscall outcome, deliberate or not. The wazero error is
		// just the unwind vehicle.
	case callErr != nil:
		reason = bridge.TrapTermination(errors.Wrap(errors.PhaseEngine, errors.KindUnreachable, callErr, "guest trapped"))
	default:
		reason = bridge.SuccessTermination()
	}

	Logger().Debug("execution finished",
		zap.String("entry", entry),
		zap.Stringer("termination", reason),
		zap.Uint64("gas_left", ext.GasAvailable()))

	return &Result{Termination: reason, GasLeft: ext.GasAvailable()}, nil
}
