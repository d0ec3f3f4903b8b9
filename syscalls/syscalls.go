package syscalls

import (
	"encoding/binary"
	"math"

	"github.com/holiman/uint256"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/memaccess"
)

// PtrSpecial is the sentinel pointer value marking an optional pointer
// argument as absent. Handlers treat an absent value pointer as value zero.
// The sentinel is part of the wire contract with guest programs.
const PtrSpecial uint32 = math.MaxInt32

// Kind classifies how an entry reports failure to the guest.
type Kind int

const (
	// KindInfallible entries trap the execution on any failure.
	KindInfallible Kind = iota
	// KindFallible entries write an error-coded record to a result pointer
	// and let the guest continue on guest-visible host failures.
	KindFallible
	// KindSystem entries return a sentinel scalar on guest-visible host
	// failures. Memory management uses this kind.
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindInfallible:
		return "infallible"
	case KindFallible:
		return "fallible"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// ValueType is a wasm core value type appearing in entry signatures.
type ValueType byte

const (
	I32 ValueType = iota
	I64
)

// Signature is the typed wasm signature of an entry. Result is nil for
// entries that return nothing.
type Signature struct {
	Params []ValueType
	Result *ValueType
}

func params(p ...ValueType) Signature {
	return Signature{Params: p}
}

func paramsRet(ret ValueType, p ...ValueType) Signature {
	return Signature{Params: p, Result: &ret}
}

// Handler executes one syscall against a per-call context. args holds the
// raw wasm arguments widened to uint64; the returned scalar is meaningful
// only when the signature declares a result.
type Handler func(c *bridge.CallContext, args []uint64) (uint64, error)

// Entry is one row of the dispatch table.
type Entry struct {
	Name      string
	Kind      Kind
	Signature Signature
	Handler   Handler
}

// Invoke opens a call scope on state and runs the entry. An argument count
// that does not match the signature traps the execution: it means the guest
// module imported the function with a wrong type and the engine let it
// through.
func (e *Entry) Invoke(state *bridge.State, args []uint64) (uint64, error) {
	c, err := bridge.NewCall(state, e.Name)
	if err != nil {
		return 0, err
	}
	if len(args) != len(e.Signature.Params) {
		return 0, c.Fatal(errors.InvalidArguments(e.Name, len(e.Signature.Params), len(args)))
	}
	return e.Handler(c, args)
}

// Table returns the full dispatch table in a fixed order. The slice and its
// entries are freshly allocated; callers may index or reorder freely.
func Table() []*Entry {
	return []*Entry{
		// message sending
		send(),
		sendWGas(),
		sendCommit(),
		sendCommitWGas(),
		sendInit(),
		sendPush(),
		sendInput(),
		sendInputWGas(),
		sendPushInput(),
		reservationSend(),
		reservationSendCommit(),

		// replying
		reply(),
		replyWGas(),
		replyCommit(),
		replyCommitWGas(),
		replyPush(),
		replyInput(),
		replyInputWGas(),
		replyPushInput(),
		reservationReply(),
		reservationReplyCommit(),
		replyTo(),
		signalFrom(),
		statusCode(),

		// payload and memory
		read(),
		size(),
		alloc(),
		free(),
		freeRange(),

		// execution context queries
		blockHeight(),
		blockTimestamp(),
		origin(),
		source(),
		value(),
		valueAvailable(),
		messageID(),
		programID(),
		gasAvailable(),
		random(),

		// control flow
		exit(),
		leave(),
		wait(),
		waitFor(),
		waitUpTo(),
		wake(),
		outOfGas(),
		outOfAllowance(),

		// program and gas management
		createProgram(),
		createProgramWGas(),
		reserveGas(),
		unreserveGas(),
		systemReserveGas(),

		// diagnostics
		debug(),
		panicWith(),
		lastError(),
	}
}

// Lookup returns the entry with the given name, or nil.
func Lookup(name string) *Entry {
	for _, e := range Table() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func arg32(args []uint64, i int) uint32 {
	return uint32(args[i])
}

func arg64(args []uint64, i int) uint64 {
	return args[i]
}

// optionalValue handles the sentinel convention for 128-bit value pointers.
// It must be constructed before the call's first read so the interval lands
// in the same validation batch.
type optionalValue struct {
	ticket  memaccess.ReadTicket
	present bool
}

func registerValue(c *bridge.CallContext, ptr uint32) optionalValue {
	if ptr == PtrSpecial {
		return optionalValue{}
	}
	return optionalValue{ticket: c.RegisterRead(ptr, codec.ValueLen), present: true}
}

func (v optionalValue) read(c *bridge.CallContext) (uint256.Int, error) {
	var out uint256.Int
	if !v.present {
		return out, nil
	}
	buf, err := c.Read(v.ticket)
	if err != nil {
		return out, err
	}
	if err := codec.GetValue128(&out, buf); err != nil {
		return out, err
	}
	return out, nil
}

func stageU32(c *bridge.CallContext, t memaccess.WriteTicket, v uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return c.StageWrite(t, buf)
}

func stageU64(c *bridge.CallContext, t memaccess.WriteTicket, v uint64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return c.StageWrite(t, buf)
}
