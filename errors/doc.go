// Package errors provides structured error types for the syscall bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The failure classification in the bridge package is driven by
// these categories: every memory-access or decode error is fatal for the
// guest, while host business errors stay recoverable.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
//		Syscall("send").
//		Detail("interval [%d, +%d) exceeds memory of %d bytes", ptr, size, memSize).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMemory, ptr, size, memSize)
//	err := errors.SizeMismatch(errors.PhaseDecode, want, got)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
