package gas

// Schedule maps operations to their gas cost. Instances are plain data: the
// values below are illustrative defaults, real deployments load their own
// weight table.
type Schedule struct {
	// SyscallBase is charged for every dispatch entry without an explicit
	// override in Syscall.
	SyscallBase uint64

	// Syscall holds per-entry base cost overrides keyed by entry name.
	Syscall map[string]uint64

	// MemoryReadByte and MemoryWriteByte are charged per byte when registered
	// access intervals are validated, before any byte moves.
	MemoryReadByte  uint64
	MemoryWriteByte uint64
}

// DefaultSchedule returns a schedule usable for tests and tooling.
func DefaultSchedule() *Schedule {
	return &Schedule{
		SyscallBase:     100,
		MemoryReadByte:  1,
		MemoryWriteByte: 2,
		Syscall: map[string]uint64{
			"alloc":          1000,
			"create_program": 500,
			"send":           300,
			"reply":          300,
		},
	}
}

// CostOf returns the base cost of the named dispatch entry.
func (s *Schedule) CostOf(name string) uint64 {
	if c, ok := s.Syscall[name]; ok {
		return c
	}
	return s.SyscallBase
}

// ReadCost returns the cost of reading n bytes of guest memory.
func (s *Schedule) ReadCost(n uint64) uint64 {
	return s.MemoryReadByte * n
}

// WriteCost returns the cost of writing n bytes of guest memory.
func (s *Schedule) WriteCost(n uint64) uint64 {
	return s.MemoryWriteByte * n
}
