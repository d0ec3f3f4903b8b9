package host

import (
	"github.com/holiman/uint256"

	"github.com/wippyai/syscall-bridge/codec"
)

// ActorID identifies a program or user account.
type ActorID codec.Hash

// MessageID identifies a message in the queue.
type MessageID codec.Hash

// CodeID identifies uploaded program code.
type CodeID codec.Hash

// ReservationID identifies a gas reservation.
type ReservationID codec.Hash

func (id ActorID) Hash() codec.Hash       { return codec.Hash(id) }
func (id MessageID) Hash() codec.Hash     { return codec.Hash(id) }
func (id CodeID) Hash() codec.Hash        { return codec.Hash(id) }
func (id ReservationID) Hash() codec.Hash { return codec.Hash(id) }

// SendPacket describes an outgoing message. A nil GasLimit means the message
// inherits gas from the sending execution.
type SendPacket struct {
	Destination ActorID
	Payload     []byte
	GasLimit    *uint64
	Value       uint256.Int
}

// ReplyPacket describes a reply to the currently processed message.
type ReplyPacket struct {
	Payload  []byte
	GasLimit *uint64
	Value    uint256.Int
}

// InitPacket describes a program creation request.
type InitPacket struct {
	CodeID   CodeID
	Salt     []byte
	Payload  []byte
	GasLimit *uint64
	Value    uint256.Int
}
