package host

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/syscall-bridge/errors"
)

// Guest-visible error codes. These are wire contract: guests branch on them,
// so the numbering is append-only.
const (
	CodeSyscallUsage       uint32 = 0x01
	CodeInsufficientGas    uint32 = 0x02
	CodeInsufficientValue  uint32 = 0x03
	CodeReadWrongRange     uint32 = 0x04
	CodeUnknownHandle      uint32 = 0x05
	CodeLateAccess         uint32 = 0x06
	CodeNoReplyContext     uint32 = 0x07
	CodeNoSignalContext    uint32 = 0x08
	CodeNoStatusCode       uint32 = 0x09
	CodeUnknownReservation uint32 = 0x0a
	CodeDuplicateReply     uint32 = 0x0b
	CodeAllocLimit         uint32 = 0x0c
	CodeUnknownMessage     uint32 = 0x0d
	CodeInvalidFreeRange   uint32 = 0x0e
	CodeReservationLimit   uint32 = 0x0f
)

// ExtError is a guest-visible business failure. Fallible syscalls report it
// back into guest memory as a packed code; the full encoded form stays
// retrievable through the error-fetch syscall until the next fallible call.
type ExtError struct {
	Code uint32
	Msg  string
}

func NewExtError(code uint32, msg string) *ExtError {
	return &ExtError{Code: code, Msg: msg}
}

func (e *ExtError) Error() string {
	return fmt.Sprintf("ext error %#x: %s", e.Code, e.Msg)
}

// EncodedLen returns the size of the binary form: code (4) | msg len (4) |
// msg bytes.
func (e *ExtError) EncodedLen() int {
	return 8 + len(e.Msg)
}

// Encode returns the binary form used by the error-fetch syscall.
func (e *ExtError) Encode() []byte {
	buf := make([]byte, e.EncodedLen())
	binary.LittleEndian.PutUint32(buf[0:4], e.Code)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(e.Msg)))
	copy(buf[8:], e.Msg)
	return buf
}

// DecodeExtError parses the binary form, rejecting trailing bytes.
func DecodeExtError(src []byte) (*ExtError, error) {
	if len(src) < 8 {
		return nil, errors.SizeMismatch(errors.PhaseDecode, 8, len(src))
	}
	msgLen := binary.LittleEndian.Uint32(src[4:8])
	if uint64(len(src)) != 8+uint64(msgLen) {
		return nil, errors.InvalidData(errors.PhaseDecode, "ext error length field %d does not match buffer of %d bytes", msgLen, len(src))
	}
	return &ExtError{
		Code: binary.LittleEndian.Uint32(src[0:4]),
		Msg:  string(src[8:]),
	}, nil
}

// Predefined business failures shared by host implementations.
var (
	ErrSyscallUsage       = NewExtError(CodeSyscallUsage, "syscall not allowed in this context")
	ErrInsufficientGas    = NewExtError(CodeInsufficientGas, "not enough gas for the operation")
	ErrInsufficientValue  = NewExtError(CodeInsufficientValue, "not enough value to transfer")
	ErrReadWrongRange     = NewExtError(CodeReadWrongRange, "requested range is out of the payload")
	ErrUnknownHandle      = NewExtError(CodeUnknownHandle, "unknown outgoing message handle")
	ErrLateAccess         = NewExtError(CodeLateAccess, "handle was already committed")
	ErrNoReplyContext     = NewExtError(CodeNoReplyContext, "not running in the reply context")
	ErrNoSignalContext    = NewExtError(CodeNoSignalContext, "not running in the signal context")
	ErrNoStatusCode       = NewExtError(CodeNoStatusCode, "no status code available")
	ErrUnknownReservation = NewExtError(CodeUnknownReservation, "unknown gas reservation")
	ErrDuplicateReply     = NewExtError(CodeDuplicateReply, "reply was already sent")
	ErrAllocLimit         = NewExtError(CodeAllocLimit, "memory page limit reached")
	ErrUnknownMessage     = NewExtError(CodeUnknownMessage, "unknown message id")
	ErrInvalidFreeRange   = NewExtError(CodeInvalidFreeRange, "invalid page range")
	ErrReservationLimit   = NewExtError(CodeReservationLimit, "reservation limit reached")
)
