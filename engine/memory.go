package engine

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/syscall-bridge/errors"
)

// guestMemory adapts wazero's api.Memory to the bridge's memory capability.
// The underlying memory is bound lazily on the first host call, after the
// guest instance exists.
type guestMemory struct {
	mem api.Memory
}

func (m *guestMemory) bind(mem api.Memory) {
	if m.mem == nil {
		m.mem = mem
	}
}

func (m *guestMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

func (m *guestMemory) Grow(pages uint32) error {
	if m.mem == nil {
		return errors.Unreachable("grow before memory is bound")
	}
	if _, ok := m.mem.Grow(pages); !ok {
		return errors.New(errors.PhaseEngine, errors.KindOutOfBounds).
			Detail("memory grow by %d pages rejected", pages).
			Build()
	}
	return nil
}

func (m *guestMemory) Read(offset uint32, buf []byte) error {
	if m.mem == nil {
		return errors.Unreachable("read before memory is bound")
	}
	src, ok := m.mem.Read(offset, uint32(len(buf)))
	if !ok {
		return errors.OutOfBounds(errors.PhaseEngine, offset, uint32(len(buf)), m.mem.Size())
	}
	copy(buf, src)
	return nil
}

func (m *guestMemory) Write(offset uint32, data []byte) error {
	if m.mem == nil {
		return errors.Unreachable("write before memory is bound")
	}
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseEngine, offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}
