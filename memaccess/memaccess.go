package memaccess

import (
	"math"

	syscallbridge "github.com/wippyai/syscall-bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/gas"
)

// Memory is the engine linear-memory capability.
type Memory = syscallbridge.Memory

// ChargeFunc is the single metering hook: it is called once per Prepare with
// the total cost of the registered traffic.
type ChargeFunc func(amount uint64) error

// Interval is a registered (offset, size) region of guest memory.
type Interval struct {
	Offset uint32
	Size   uint32
}

// ReadTicket is a registered, not-yet-executed read intent.
type ReadTicket struct {
	id   int
	ptr  uint32
	size uint32
}

// Size returns the registered region length in bytes.
func (t ReadTicket) Size() uint32 { return t.size }

// WriteTicket is a registered, not-yet-executed write intent.
type WriteTicket struct {
	id   int
	ptr  uint32
	size uint32
}

// Size returns the registered region length in bytes.
func (t WriteTicket) Size() uint32 { return t.size }

// Offset returns the registered region offset.
func (t WriteTicket) Offset() uint32 { return t.ptr }

// Registry collects access intents before any of them is validated or
// executed. The zero value is ready to use.
type Registry struct {
	reads  []Interval
	writes []Interval
	next   int
}

// RegisterRead records intent to read size bytes at ptr.
func (r *Registry) RegisterRead(ptr, size uint32) ReadTicket {
	if size > 0 {
		r.reads = append(r.reads, Interval{Offset: ptr, Size: size})
	}
	t := ReadTicket{id: r.next, ptr: ptr, size: size}
	r.next++
	return t
}

// RegisterReadAs records intent to read rec's fixed layout at ptr.
func (r *Registry) RegisterReadAs(ptr uint32, rec codec.Record) ReadTicket {
	return r.RegisterRead(ptr, uint32(rec.EncodedLen()))
}

// RegisterWrite records intent to write size bytes at ptr.
func (r *Registry) RegisterWrite(ptr, size uint32) WriteTicket {
	if size > 0 {
		r.writes = append(r.writes, Interval{Offset: ptr, Size: size})
	}
	t := WriteTicket{id: r.next, ptr: ptr, size: size}
	r.next++
	return t
}

// RegisterWriteAs records intent to write rec's fixed layout at ptr.
func (r *Registry) RegisterWriteAs(ptr uint32, rec codec.Record) WriteTicket {
	return r.RegisterWrite(ptr, uint32(rec.EncodedLen()))
}

// Prepare validates every registered interval against the current memory
// bound and charges the per-byte cost of the whole batch through charge.
// Charging happens first: validating and moving the bytes is the work being
// paid for, and a guest must not learn bounds information it cannot afford.
func (r *Registry) Prepare(mem Memory, charge ChargeFunc, costs *gas.Schedule) (*Io, error) {
	var readBytes, writeBytes uint64
	for _, iv := range r.reads {
		readBytes += uint64(iv.Size)
	}
	for _, iv := range r.writes {
		writeBytes += uint64(iv.Size)
	}
	if err := charge(costs.ReadCost(readBytes) + costs.WriteCost(writeBytes)); err != nil {
		return nil, err
	}

	size := mem.Size()
	for _, iv := range r.reads {
		if err := checkInterval(iv, size); err != nil {
			return nil, err
		}
	}
	for _, iv := range r.writes {
		if err := checkInterval(iv, size); err != nil {
			return nil, err
		}
	}

	return &Io{mem: mem, consumed: make([]bool, r.next)}, nil
}

// checkInterval fails on 32-bit overflow of offset+size or on an interval
// past the current memory bound. Zero-size intervals are always valid.
func checkInterval(iv Interval, memSize uint32) error {
	if iv.Size == 0 {
		return nil
	}
	end := uint64(iv.Offset) + uint64(iv.Size)
	if end > math.MaxUint32 {
		return errors.Overflow(errors.PhaseMemory, iv.Offset, iv.Size)
	}
	if end > uint64(memSize) {
		return errors.OutOfBounds(errors.PhaseMemory, iv.Offset, iv.Size, memSize)
	}
	return nil
}

// Io executes registered accesses. Obtained only via Registry.Prepare, so
// every consumable ticket has already passed batch validation; consumption
// re-validates against the live bound in case memory was resized in between.
type Io struct {
	mem      Memory
	consumed []bool
}

func (io *Io) consume(id int) error {
	if id >= len(io.consumed) {
		return errors.Unreachable("ticket %d from a different registry", id)
	}
	if io.consumed[id] {
		return errors.TicketReuse(errors.PhaseMemory)
	}
	io.consumed[id] = true
	return nil
}

// Read copies the ticket's region into a freshly owned buffer.
func (io *Io) Read(t ReadTicket) ([]byte, error) {
	if err := io.consume(t.id); err != nil {
		return nil, err
	}
	if t.size == 0 {
		return nil, nil
	}
	if err := checkInterval(Interval{Offset: t.ptr, Size: t.size}, io.mem.Size()); err != nil {
		return nil, err
	}
	buf := make([]byte, t.size)
	if err := io.mem.Read(t.ptr, buf); err != nil {
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read failed after validation")
	}
	return buf, nil
}

// ReadAs reads the ticket's region and decodes it into rec. The ticket must
// have been registered for exactly rec's layout.
func (io *Io) ReadAs(t ReadTicket, rec codec.Record) error {
	buf, err := io.Read(t)
	if err != nil {
		return err
	}
	if len(buf) != rec.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, rec.EncodedLen(), len(buf))
	}
	return rec.Decode(buf)
}

// Write copies data into the ticket's region. The data length must match the
// registered size exactly.
func (io *Io) Write(t WriteTicket, data []byte) error {
	if err := io.consume(t.id); err != nil {
		return err
	}
	if uint32(len(data)) != t.size {
		return errors.SizeMismatch(errors.PhaseMemory, int(t.size), len(data))
	}
	if t.size == 0 {
		return nil
	}
	if err := checkInterval(Interval{Offset: t.ptr, Size: t.size}, io.mem.Size()); err != nil {
		return err
	}
	if err := io.mem.Write(t.ptr, data); err != nil {
		return errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write failed after validation")
	}
	return nil
}

// WriteAs encodes rec and writes it into the ticket's region.
func (io *Io) WriteAs(t WriteTicket, rec codec.Record) error {
	buf, err := codec.Marshal(rec)
	if err != nil {
		return err
	}
	return io.Write(t, buf)
}
