package bridge

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
	"github.com/wippyai/syscall-bridge/memaccess"
)

// CallContext scopes one syscall invocation. It is created per call, charges
// the entry cost, mediates all guest memory access through the memaccess
// registry, and stages writes so they commit atomically.
//
// All registrations must happen before the first read or the commit,
// whichever comes first: preparing the registry validates every registered
// interval in one batch.
type CallContext struct {
	state    *State
	name     string
	registry memaccess.Registry
	io       *memaccess.Io
	staged   []stagedWrite
}

type stagedWrite struct {
	ticket memaccess.WriteTicket
	data   []byte
}

// NewCall opens a syscall scope. Invoking a forbidden entry terminates the
// execution immediately.
func NewCall(state *State, name string) (*CallContext, error) {
	c := &CallContext{state: state, name: name}
	if state.Forbidden(name) {
		return nil, c.Fatal(errors.Forbidden(name))
	}
	return c, nil
}

// Name returns the dispatch entry name this context serves.
func (c *CallContext) Name() string {
	return c.name
}

// State returns the per-execution state.
func (c *CallContext) State() *State {
	return c.state
}

// Ext returns the externalities of the execution.
func (c *CallContext) Ext() host.Externalities {
	return c.state.ext
}

// RegisterRead records intent to read size bytes at ptr.
func (c *CallContext) RegisterRead(ptr, size uint32) memaccess.ReadTicket {
	return c.registry.RegisterRead(ptr, size)
}

// RegisterReadAs records intent to read rec's fixed layout at ptr.
func (c *CallContext) RegisterReadAs(ptr uint32, rec codec.Record) memaccess.ReadTicket {
	return c.registry.RegisterReadAs(ptr, rec)
}

// RegisterWrite records intent to write size bytes at ptr.
func (c *CallContext) RegisterWrite(ptr, size uint32) memaccess.WriteTicket {
	return c.registry.RegisterWrite(ptr, size)
}

// RegisterWriteAs records intent to write rec's fixed layout at ptr.
func (c *CallContext) RegisterWriteAs(ptr uint32, rec codec.Record) memaccess.WriteTicket {
	return c.registry.RegisterWriteAs(ptr, rec)
}

// prepare validates all registered intervals and charges the memory traffic.
// It runs once, on the first read or at commit.
func (c *CallContext) prepare() error {
	if c.io != nil {
		return nil
	}
	io, err := c.registry.Prepare(c.state.mem, c.state.ext.ChargeGas, c.state.costs)
	if err != nil {
		return err
	}
	c.io = io
	return nil
}

// Read consumes a read ticket and returns a freshly owned copy of the
// region.
func (c *CallContext) Read(t memaccess.ReadTicket) ([]byte, error) {
	if err := c.prepare(); err != nil {
		return nil, err
	}
	return c.io.Read(t)
}

// ReadAs consumes a read ticket and decodes the region into rec.
func (c *CallContext) ReadAs(t memaccess.ReadTicket, rec codec.Record) error {
	if err := c.prepare(); err != nil {
		return err
	}
	return c.io.ReadAs(t, rec)
}

// StageWrite queues data for the ticket's region. Nothing reaches guest
// memory until the call commits; a fatal failure discards the queue.
func (c *CallContext) StageWrite(t memaccess.WriteTicket, data []byte) error {
	if uint32(len(data)) != t.Size() {
		return errors.SizeMismatch(errors.PhaseMemory, int(t.Size()), len(data))
	}
	c.staged = append(c.staged, stagedWrite{ticket: t, data: data})
	return nil
}

// StageWriteAs encodes rec now and queues the bytes for the ticket's region.
// Encoding eagerly keeps encode failures on the failing syscall, not on the
// commit path.
func (c *CallContext) StageWriteAs(t memaccess.WriteTicket, rec codec.Record) error {
	data, err := codec.Marshal(rec)
	if err != nil {
		return err
	}
	return c.StageWrite(t, data)
}

// commit flushes every staged write to guest memory.
func (c *CallContext) commit() error {
	if err := c.prepare(); err != nil {
		return err
	}
	for _, w := range c.staged {
		if err := c.io.Write(w.ticket, w.data); err != nil {
			return err
		}
	}
	c.staged = nil
	return nil
}

// chargeEntry charges the base cost of the entry and emits the trace line.
func (c *CallContext) chargeEntry() error {
	if ce := Logger().Check(zap.DebugLevel, "syscall"); ce != nil {
		ce.Write(zap.String("name", c.name))
	}
	return c.state.ext.ChargeGas(c.state.costs.CostOf(c.name))
}

// Fatal classifies err, records the termination reason exactly once, and
// returns ErrTerminated. Staged writes are dropped: no partial write is
// observable after a fatal failure.
func (c *CallContext) Fatal(err error) error {
	c.staged = nil

	var reason TerminationReason
	var req terminationRequest
	switch {
	case stderrors.As(err, &req):
		reason = req.reason
	case stderrors.Is(err, gas.ErrGasLimitExceeded):
		reason = OutOfGasTermination()
	case stderrors.Is(err, gas.ErrAllowanceExceeded):
		reason = OutOfAllowanceTermination()
	default:
		reason = TrapTermination(err)
	}

	c.state.setTermination(reason)
	if ce := Logger().Check(zap.DebugLevel, "syscall terminated"); ce != nil {
		ce.Write(zap.String("name", c.name), zap.Stringer("reason", reason))
	}
	return ErrTerminated
}

// Run executes an infallible syscall body: any failure is fatal.
func (c *CallContext) Run(body func(*CallContext) error) error {
	if err := c.chargeEntry(); err != nil {
		return c.Fatal(err)
	}
	if err := body(c); err != nil {
		return c.Fatal(err)
	}
	if err := c.commit(); err != nil {
		return c.Fatal(err)
	}
	return nil
}

// RunFallible executes a fallible syscall body. On success the body has
// populated out and its length field stays zero; on a guest-visible host
// failure out is switched to its error form and the last-error slot is
// updated. Either way the record is written to resPtr and the guest
// continues. Everything else is fatal.
func (c *CallContext) RunFallible(resPtr uint32, out codec.ErrorCoded, body func(*CallContext) error) error {
	if err := c.chargeEntry(); err != nil {
		return c.Fatal(err)
	}
	c.state.clearLastError()

	resTicket := c.RegisterWriteAs(resPtr, out)

	if err := body(c); err != nil {
		var extErr *host.ExtError
		if !stderrors.As(err, &extErr) {
			return c.Fatal(err)
		}
		c.state.setLastError(extErr)
		out.SetError(extErr.Code)
		if ce := Logger().Check(zap.DebugLevel, "syscall failed recoverably"); ce != nil {
			ce.Write(zap.String("name", c.name), zap.Uint32("code", extErr.Code))
		}
	}

	if err := c.StageWriteAs(resTicket, out); err != nil {
		return c.Fatal(err)
	}
	if err := c.commit(); err != nil {
		return c.Fatal(err)
	}
	return nil
}

// RunSystem executes a memory-management syscall body. Guest-visible host
// failures surface as the sentinel scalar errValue instead of an error
// record; everything else is fatal.
func (c *CallContext) RunSystem(errValue uint32, body func(*CallContext) (uint32, error)) (uint32, error) {
	if err := c.chargeEntry(); err != nil {
		return 0, c.Fatal(err)
	}

	v, err := body(c)
	if err != nil {
		var extErr *host.ExtError
		if !stderrors.As(err, &extErr) {
			return 0, c.Fatal(err)
		}
		if ce := Logger().Check(zap.DebugLevel, "system syscall failed"); ce != nil {
			ce.Write(zap.String("name", c.name), zap.Uint32("code", extErr.Code))
		}
		return errValue, nil
	}

	if err := c.commit(); err != nil {
		return 0, c.Fatal(err)
	}
	return v, nil
}
