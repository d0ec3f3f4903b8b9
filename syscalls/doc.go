// Package syscalls defines the dispatch table exposed to guest programs.
//
// The table is engine agnostic. Every Entry carries its name, its kind
// (infallible, fallible or system), a typed wasm signature, and a handler
// operating on raw i32/i64 arguments through a bridge.CallContext. Engines
// bind the table once and translate their native call convention into the
// []uint64 argument slice; nothing in this package depends on a particular
// wasm runtime.
//
// Fallible entries receive a result pointer as their last argument and write
// a packed error-coded record there. System entries (alloc, free, free_range)
// return a sentinel scalar instead. Infallible entries trap on any failure.
package syscalls
