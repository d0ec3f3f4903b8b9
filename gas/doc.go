// Package gas implements the resource accounting primitives of the bridge.
//
// A Meter carries two independent counters: the gas limit paid for by the
// message, and the block execution allowance granted by the scheduler. Every
// charge decrements both; whichever runs out first decides how the execution
// terminates (out-of-gas vs out-of-allowance).
//
// The Schedule maps dispatch entries and memory traffic to costs. The numeric
// values are external configuration: the bridge only requires that some cost
// is charged for every operation through a single hook, not what the values
// are.
package gas
