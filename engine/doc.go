// Package engine executes guest WASM programs against the syscall bridge
// using wazero.
//
// # Architecture
//
// The package provides two main types:
//
//	Engine - owns the wazero runtime and the instantiated host module
//	Module - a compiled guest program, executed once per incoming message
//
// # Execution Flow
//
//  1. NewEngine creates the wazero runtime and binds every dispatch table
//     entry into one "env" host module.
//  2. Engine.LoadModule compiles the guest binary.
//  3. Module.Execute instantiates the guest, runs the requested export
//     against the provided externalities, and reports the termination
//     reason and remaining gas.
//
// Host functions receive the per-execution state through the context, so a
// single host module instance serves every execution on the engine. A fatal
// syscall failure raises a wazero trap; Execute consults the recorded
// termination reason before looking at the raw engine error, so deliberate
// stops (exit, leave, wait) and metering stops are never misreported as
// faults.
package engine
