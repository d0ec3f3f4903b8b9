// Package syscallbridge implements a deterministic, metered syscall execution
// bridge between untrusted guest WASM programs and a host actor runtime.
//
// The bridge intercepts every guest system call, validates and stages all
// guest-memory reads and writes before host state is touched, charges gas
// through a single metering hook, and converts failures into either a
// recoverable error code written back into guest memory or a fatal
// termination signal handed to the external scheduler.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	syscallbridge/       Root package with the engine Memory capability
//	├── bridge/          Per-execution state, charging wrapper, termination model
//	├── syscalls/        The dispatch table: one named entry per guest syscall
//	├── memaccess/       Bounds-checked guest memory access with deferred validation
//	├── codec/           Fixed-layout little-endian wire records
//	├── host/            Externalities interface and guest-visible error codes
//	├── gas/             Gas and allowance counters, cost schedule
//	├── errors/          Structured error types for failure classification
//	└── engine/          wazero-backed execution environment
//
// # Quick Start
//
// Execute a guest program export against a host implementation:
//
//	env, err := engine.NewEngine(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer env.Close(ctx)
//
//	mod, err := env.LoadModule(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := mod.Execute(ctx, "handle", ext, nil)
//	fmt.Println(res.Termination, res.GasLeft)
//
// The dispatch table itself is engine-agnostic: syscalls operate on the
// bridge.CallContext and the Memory interface defined here, so an alternative
// engine only needs to adapt its linear memory and trap mechanism.
package syscallbridge
