package host

import (
	"github.com/holiman/uint256"

	syscallbridge "github.com/wippyai/syscall-bridge"
	"github.com/wippyai/syscall-bridge/codec"
)

// Externalities is the set of host operations reachable from guest syscalls.
//
// Every method that can fail in a guest-visible way returns an *ExtError; any
// other returned error is unrecoverable and traps the guest. Implementations
// are used by exactly one execution at a time and need no synchronization.
type Externalities interface {
	// ChargeGas is the single metering hook. It returns
	// gas.ErrGasLimitExceeded or gas.ErrAllowanceExceeded when the
	// corresponding counter runs out; both are fatal for the execution.
	ChargeGas(amount uint64) error

	// GasAvailable returns the gas left on the meter.
	GasAvailable() uint64

	// Alloc grows the program's linear memory and returns the first page
	// index of the new region.
	Alloc(pages uint32, mem syscallbridge.Memory) (uint32, error)
	// Free releases one previously allocated page.
	Free(page uint32) error
	// FreeRange releases the inclusive page range [start, end].
	FreeRange(start, end uint32) error

	BlockHeight() (uint32, error)
	BlockTimestamp() (uint64, error)
	Origin() (ActorID, error)
	Source() (ActorID, error)
	MessageID() (MessageID, error)
	ProgramID() (ActorID, error)
	Value() (uint256.Int, error)
	ValueAvailable() (uint256.Int, error)

	// Size returns the length of the processed message's payload.
	Size() (uint32, error)
	// PayloadSlice returns the [at, at+length) range of the payload.
	PayloadSlice(at, length uint32) ([]byte, error)

	Send(packet SendPacket, delay uint32) (MessageID, error)
	SendInit() (uint32, error)
	SendPush(handle uint32, payload []byte) error
	SendPushInput(handle uint32, at, length uint32) error
	SendCommit(handle uint32, packet SendPacket, delay uint32) (MessageID, error)
	ReservationSend(id ReservationID, packet SendPacket, delay uint32) (MessageID, error)
	ReservationSendCommit(id ReservationID, handle uint32, packet SendPacket, delay uint32) (MessageID, error)

	Reply(packet ReplyPacket, delay uint32) (MessageID, error)
	ReplyCommit(packet ReplyPacket, delay uint32) (MessageID, error)
	ReplyPush(payload []byte) error
	ReplyPushInput(at, length uint32) error
	ReservationReply(id ReservationID, packet ReplyPacket, delay uint32) (MessageID, error)
	ReservationReplyCommit(id ReservationID, packet ReplyPacket, delay uint32) (MessageID, error)

	// ReplyTo returns the id of the message this reply context answers.
	ReplyTo() (MessageID, error)
	// SignalFrom returns the id of the message that triggered this signal.
	SignalFrom() (MessageID, error)
	// StatusCode returns the reply status code in the reply context.
	StatusCode() (int32, error)

	// Exit transfers the program's remaining value to the inheritor. The
	// bridge raises the exit termination after this hook succeeds.
	Exit(inheritor ActorID) error
	// Leave and the Wait family only validate that stopping is allowed
	// here; control transfer is the bridge's job.
	Leave() error
	Wait() error
	WaitFor(duration uint32) error
	// WaitUpTo reports whether the full requested duration will be waited
	// (true) or whether an earlier wake-up is already scheduled.
	WaitUpTo(duration uint32) (bool, error)
	Wake(id MessageID, delay uint32) error

	CreateProgram(packet InitPacket, delay uint32) (MessageID, ActorID, error)

	ReserveGas(amount uint64, duration uint32) (ReservationID, error)
	UnreserveGas(id ReservationID) (uint64, error)
	SystemReserveGas(amount uint64) error

	// Random derives a hash from the epoch randomness and subject, and
	// returns the block number at which the randomness is observable.
	Random(subject []byte) (uint32, codec.Hash, error)

	// Debug emits a host-side log line on behalf of the guest.
	Debug(msg string) error
}
