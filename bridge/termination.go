package bridge

import (
	"fmt"

	"github.com/wippyai/syscall-bridge/host"
)

// TerminationKind tags the ways control can return to the scheduler.
type TerminationKind uint8

const (
	// TerminationSuccess: the guest export returned normally.
	TerminationSuccess TerminationKind = iota
	// TerminationExit: the program removed itself in favor of an inheritor.
	TerminationExit
	// TerminationLeave: the message is done, the program stays.
	TerminationLeave
	// TerminationWait: the message parks until woken.
	TerminationWait
	// TerminationOutOfGas: the message's gas limit ran out.
	TerminationOutOfGas
	// TerminationOutOfAllowance: the block execution allowance ran out.
	TerminationOutOfAllowance
	// TerminationTrap: the guest misbehaved; the cause explains how.
	TerminationTrap
)

func (k TerminationKind) String() string {
	switch k {
	case TerminationSuccess:
		return "success"
	case TerminationExit:
		return "exit"
	case TerminationLeave:
		return "leave"
	case TerminationWait:
		return "wait"
	case TerminationOutOfGas:
		return "out of gas"
	case TerminationOutOfAllowance:
		return "out of allowance"
	case TerminationTrap:
		return "trap"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// WaitKind distinguishes the wait flavors for the scheduler.
type WaitKind uint8

const (
	// WaitIndefinite parks until explicitly woken.
	WaitIndefinite WaitKind = iota
	// WaitForExact parks for exactly the requested duration.
	WaitForExact
	// WaitUpToEarly parks with an upper bound and an earlier wake-up is
	// already scheduled.
	WaitUpToEarly
	// WaitUpToFull parks with an upper bound and the full duration will
	// elapse.
	WaitUpToFull
)

// TerminationReason describes why guest execution stopped. It is constructed
// only by the charging wrapper and consumed by the external scheduler.
type TerminationReason struct {
	kind      TerminationKind
	inheritor host.ActorID
	duration  uint32
	bounded   bool
	waitKind  WaitKind
	trap      error
}

// SuccessTermination reports a normal return.
func SuccessTermination() TerminationReason {
	return TerminationReason{kind: TerminationSuccess}
}

// ExitTermination reports a voluntary program exit.
func ExitTermination(inheritor host.ActorID) TerminationReason {
	return TerminationReason{kind: TerminationExit, inheritor: inheritor}
}

// LeaveTermination reports a voluntary end of message processing.
func LeaveTermination() TerminationReason {
	return TerminationReason{kind: TerminationLeave}
}

// WaitTermination reports a voluntary suspend. A nil duration means the wait
// is unbounded.
func WaitTermination(duration *uint32, kind WaitKind) TerminationReason {
	r := TerminationReason{kind: TerminationWait, waitKind: kind}
	if duration != nil {
		r.duration = *duration
		r.bounded = true
	}
	return r
}

// OutOfGasTermination reports gas exhaustion.
func OutOfGasTermination() TerminationReason {
	return TerminationReason{kind: TerminationOutOfGas}
}

// OutOfAllowanceTermination reports allowance exhaustion.
func OutOfAllowanceTermination() TerminationReason {
	return TerminationReason{kind: TerminationOutOfAllowance}
}

// TrapTermination reports a guest fault with its cause.
func TrapTermination(cause error) TerminationReason {
	return TerminationReason{kind: TerminationTrap, trap: cause}
}

// Kind returns the termination tag.
func (r TerminationReason) Kind() TerminationKind {
	return r.kind
}

// Inheritor returns the exit inheritor for TerminationExit.
func (r TerminationReason) Inheritor() (host.ActorID, bool) {
	return r.inheritor, r.kind == TerminationExit
}

// WaitDuration returns the wait bound; ok is false for unbounded waits or
// non-wait terminations.
func (r TerminationReason) WaitDuration() (uint32, bool) {
	return r.duration, r.kind == TerminationWait && r.bounded
}

// Wait returns the wait flavor for TerminationWait.
func (r TerminationReason) Wait() WaitKind {
	return r.waitKind
}

// Trap returns the fault cause for TerminationTrap.
func (r TerminationReason) Trap() error {
	return r.trap
}

func (r TerminationReason) String() string {
	switch r.kind {
	case TerminationExit:
		return fmt.Sprintf("exit(inheritor=%s)", r.inheritor.Hash())
	case TerminationWait:
		if r.bounded {
			return fmt.Sprintf("wait(duration=%d, kind=%d)", r.duration, r.waitKind)
		}
		return "wait"
	case TerminationTrap:
		return fmt.Sprintf("trap(%v)", r.trap)
	default:
		return r.kind.String()
	}
}

// terminatedError is the sentinel returned by the wrappers after a fatal
// termination was recorded on the State.
type terminatedError struct{}

func (terminatedError) Error() string {
	return "guest execution terminated"
}

// ErrTerminated is returned from a syscall handler when a fatal termination
// reason was recorded. Engines translate it into their trap mechanism; the
// reason itself lives on the State.
var ErrTerminated error = terminatedError{}

// terminationRequest carries a deliberate control-flow exit (exit, leave,
// wait) through the error channel of a syscall body.
type terminationRequest struct {
	reason TerminationReason
}

func (terminationRequest) Error() string {
	return "termination requested"
}

// Terminate signals from a syscall body that guest execution must stop with
// the given reason. The wrapper records it and raises the trap.
func Terminate(reason TerminationReason) error {
	return terminationRequest{reason: reason}
}
