// Package host defines the boundary between the syscall bridge and the
// surrounding actor runtime.
//
// Externalities is the full set of host operations a guest program can reach
// through the dispatch table. Implementations live outside the bridge; the
// MockExt implementation in this package exists for tests and tooling.
//
// Host failures come in two flavors with different consequences for the
// guest. An *ExtError is a guest-visible business failure: the bridge packs
// its code into the syscall's error slot and the guest keeps running. Any
// other error is treated as unrecoverable and traps guest execution.
package host
