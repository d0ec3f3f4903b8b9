package bridge

import (
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
	"github.com/wippyai/syscall-bridge/memaccess"
)

// State is the per-execution context shared by all syscalls of one guest
// program run. It owns the only mutable slots the dispatch layer has: the
// termination reason and the last recoverable error. It is never shared
// between executions and needs no synchronization.
type State struct {
	ext       host.Externalities
	mem       memaccess.Memory
	costs     *gas.Schedule
	forbidden map[string]struct{}

	termination *TerminationReason
	lastError   *host.ExtError
}

// NewState creates the execution state. A nil costs schedule falls back to
// gas.DefaultSchedule.
func NewState(ext host.Externalities, mem memaccess.Memory, costs *gas.Schedule) *State {
	if costs == nil {
		costs = gas.DefaultSchedule()
	}
	return &State{ext: ext, mem: mem, costs: costs}
}

// Ext returns the externalities of this execution.
func (s *State) Ext() host.Externalities {
	return s.ext
}

// Memory returns the guest linear memory.
func (s *State) Memory() memaccess.Memory {
	return s.mem
}

// Costs returns the active cost schedule.
func (s *State) Costs() *gas.Schedule {
	return s.costs
}

// Forbid disables the named syscalls for this execution. Invoking a
// forbidden entry traps with a forbidden-function explanation.
func (s *State) Forbid(names ...string) {
	if s.forbidden == nil {
		s.forbidden = make(map[string]struct{}, len(names))
	}
	for _, n := range names {
		s.forbidden[n] = struct{}{}
	}
}

// Forbidden reports whether the named syscall is disabled.
func (s *State) Forbidden(name string) bool {
	_, ok := s.forbidden[name]
	return ok
}

// Termination returns the recorded termination reason, if any.
func (s *State) Termination() (TerminationReason, bool) {
	if s.termination == nil {
		return TerminationReason{}, false
	}
	return *s.termination, true
}

// setTermination records the reason. The first recorded reason wins: a
// syscall raises at most one termination, and nothing may overwrite it.
func (s *State) setTermination(r TerminationReason) {
	if s.termination != nil {
		return
	}
	s.termination = &r
}

// LastError returns the most recent recoverable failure, or nil.
func (s *State) LastError() *host.ExtError {
	return s.lastError
}

func (s *State) setLastError(e *host.ExtError) {
	s.lastError = e
}

func (s *State) clearLastError() {
	s.lastError = nil
}
