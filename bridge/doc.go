// Package bridge implements the execution context and charging wrapper that
// scopes every guest syscall.
//
// A State lives for exactly one guest program execution and owns the
// externalities, the linear memory, the forbidden-syscall set, the
// last-error slot and the termination slot. A CallContext scopes one syscall
// invocation: it charges the entry cost, registers and validates guest
// memory accesses, stages writes, and commits them only if the call did not
// fail fatally.
//
// Three wrappers cover the three syscall kinds. Run executes an infallible
// body; RunFallible packs host business failures into the guest-supplied
// result record instead of trapping; RunSystem surfaces business failures as
// a sentinel scalar for the memory-management syscalls. All of them funnel
// fatal failures through the same path: the termination reason is recorded
// on the State exactly once and ErrTerminated is returned for the engine to
// translate into its trap mechanism.
package bridge
