package host

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"

	syscallbridge "github.com/wippyai/syscall-bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/gas"
)

// SentMessage records an outgoing message produced through MockExt.
type SentMessage struct {
	ID          MessageID
	Destination ActorID
	Payload     []byte
	Value       uint256.Int
	GasLimit    *uint64
	Delay       uint32
	Reservation *ReservationID
}

// SentReply records a reply produced through MockExt.
type SentReply struct {
	ID       MessageID
	Payload  []byte
	Value    uint256.Int
	GasLimit *uint64
	Delay    uint32
}

// WokenMessage records a wake request.
type WokenMessage struct {
	ID    MessageID
	Delay uint32
}

// CreatedProgram records a program creation request.
type CreatedProgram struct {
	MessageID MessageID
	ProgramID ActorID
	CodeID    CodeID
	Salt      []byte
	Payload   []byte
}

type outgoingMessage struct {
	payload   []byte
	committed bool
}

// MockExt is an in-memory Externalities implementation for tests and
// tooling. Message and program ids are derived deterministically with
// blake2b over the program id and a per-execution nonce, so runs are
// reproducible.
type MockExt struct {
	Meter *gas.Meter

	BlockHeightValue    uint32
	BlockTimestampValue uint64
	OriginID            ActorID
	SourceID            ActorID
	ProgID              ActorID
	MsgID               MessageID
	MsgValue            uint256.Int
	Balance             uint256.Int
	Payload             []byte

	// Reply/signal context; nil means the corresponding context is absent.
	RepliedTo       *MessageID
	SignalledBy     *MessageID
	StatusCodeValue *int32

	// WaitUpToFull is what WaitUpTo reports: whether the full duration
	// will elapse before any scheduled wake-up.
	WaitUpToFull bool

	// MaxPages bounds Alloc; AllocatedPages tracks growth.
	MaxPages       uint32
	AllocatedPages uint32

	Randomness codec.Hash

	SentMessages    []SentMessage
	SentReplies     []SentReply
	Woken           []WokenMessage
	CreatedPrograms []CreatedProgram
	DebugMessages   []string
	ExitInheritor   *ActorID

	outgoing      map[uint32]*outgoingMessage
	nextHandle    uint32
	reservations  map[ReservationID]uint64
	systemReserve uint64
	replySent     bool
	nonce         uint64
}

// NewMockExt creates a mock with the given meter and payload. MaxPages
// defaults to 512 (32MiB).
func NewMockExt(meter *gas.Meter, payload []byte) *MockExt {
	return &MockExt{
		Meter:        meter,
		Payload:      payload,
		MaxPages:     512,
		outgoing:     make(map[uint32]*outgoingMessage),
		reservations: make(map[ReservationID]uint64),
	}
}

var _ Externalities = (*MockExt)(nil)

func (m *MockExt) ChargeGas(amount uint64) error {
	return m.Meter.Charge(amount)
}

func (m *MockExt) GasAvailable() uint64 {
	return m.Meter.GasLeft()
}

// nextID derives a fresh deterministic 32-byte id.
func (m *MockExt) nextID(tag byte) codec.Hash {
	var seed [41]byte
	copy(seed[:32], m.ProgID[:])
	seed[32] = tag
	binary.LittleEndian.PutUint64(seed[33:41], m.nonce)
	m.nonce++
	return codec.Hash(blake2b.Sum256(seed[:]))
}

func (m *MockExt) Alloc(pages uint32, mem syscallbridge.Memory) (uint32, error) {
	if pages > m.MaxPages || m.AllocatedPages > m.MaxPages-pages {
		return 0, ErrAllocLimit
	}
	if err := mem.Grow(pages); err != nil {
		return 0, ErrAllocLimit
	}
	first := m.AllocatedPages
	m.AllocatedPages += pages
	return first, nil
}

func (m *MockExt) Free(page uint32) error {
	if page >= m.AllocatedPages {
		return ErrInvalidFreeRange
	}
	return nil
}

func (m *MockExt) FreeRange(start, end uint32) error {
	if start > end || end >= m.AllocatedPages {
		return ErrInvalidFreeRange
	}
	return nil
}

func (m *MockExt) BlockHeight() (uint32, error)    { return m.BlockHeightValue, nil }
func (m *MockExt) BlockTimestamp() (uint64, error) { return m.BlockTimestampValue, nil }
func (m *MockExt) Origin() (ActorID, error)        { return m.OriginID, nil }
func (m *MockExt) Source() (ActorID, error)        { return m.SourceID, nil }
func (m *MockExt) MessageID() (MessageID, error)   { return m.MsgID, nil }
func (m *MockExt) ProgramID() (ActorID, error)     { return m.ProgID, nil }

func (m *MockExt) Value() (uint256.Int, error) {
	return m.MsgValue, nil
}

func (m *MockExt) ValueAvailable() (uint256.Int, error) {
	return m.Balance, nil
}

func (m *MockExt) Size() (uint32, error) {
	return uint32(len(m.Payload)), nil
}

func (m *MockExt) PayloadSlice(at, length uint32) ([]byte, error) {
	end := uint64(at) + uint64(length)
	if end > uint64(len(m.Payload)) {
		return nil, ErrReadWrongRange
	}
	return m.Payload[at:end], nil
}

// chargeValue checks the transfer against the available balance and deducts.
func (m *MockExt) chargeValue(v *uint256.Int) error {
	if m.Balance.Lt(v) {
		return ErrInsufficientValue
	}
	m.Balance.Sub(&m.Balance, v)
	return nil
}

func (m *MockExt) Send(packet SendPacket, delay uint32) (MessageID, error) {
	if err := m.chargeValue(&packet.Value); err != nil {
		return MessageID{}, err
	}
	id := MessageID(m.nextID('m'))
	m.SentMessages = append(m.SentMessages, SentMessage{
		ID:          id,
		Destination: packet.Destination,
		Payload:     packet.Payload,
		Value:       packet.Value,
		GasLimit:    packet.GasLimit,
		Delay:       delay,
	})
	return id, nil
}

func (m *MockExt) SendInit() (uint32, error) {
	handle := m.nextHandle
	m.nextHandle++
	m.outgoing[handle] = &outgoingMessage{}
	return handle, nil
}

func (m *MockExt) pending(handle uint32) (*outgoingMessage, error) {
	out, ok := m.outgoing[handle]
	if !ok {
		return nil, ErrUnknownHandle
	}
	if out.committed {
		return nil, ErrLateAccess
	}
	return out, nil
}

func (m *MockExt) SendPush(handle uint32, payload []byte) error {
	out, err := m.pending(handle)
	if err != nil {
		return err
	}
	out.payload = append(out.payload, payload...)
	return nil
}

func (m *MockExt) SendPushInput(handle uint32, at, length uint32) error {
	slice, err := m.PayloadSlice(at, length)
	if err != nil {
		return err
	}
	return m.SendPush(handle, slice)
}

func (m *MockExt) SendCommit(handle uint32, packet SendPacket, delay uint32) (MessageID, error) {
	out, err := m.pending(handle)
	if err != nil {
		return MessageID{}, err
	}
	if err := m.chargeValue(&packet.Value); err != nil {
		return MessageID{}, err
	}
	out.committed = true
	id := MessageID(m.nextID('m'))
	m.SentMessages = append(m.SentMessages, SentMessage{
		ID:          id,
		Destination: packet.Destination,
		Payload:     append(out.payload, packet.Payload...),
		Value:       packet.Value,
		GasLimit:    packet.GasLimit,
		Delay:       delay,
	})
	return id, nil
}

func (m *MockExt) ReservationSend(id ReservationID, packet SendPacket, delay uint32) (MessageID, error) {
	if _, ok := m.reservations[id]; !ok {
		return MessageID{}, ErrUnknownReservation
	}
	delete(m.reservations, id)
	mid, err := m.Send(packet, delay)
	if err != nil {
		return MessageID{}, err
	}
	rid := id
	m.SentMessages[len(m.SentMessages)-1].Reservation = &rid
	return mid, nil
}

func (m *MockExt) ReservationSendCommit(id ReservationID, handle uint32, packet SendPacket, delay uint32) (MessageID, error) {
	if _, ok := m.reservations[id]; !ok {
		return MessageID{}, ErrUnknownReservation
	}
	delete(m.reservations, id)
	mid, err := m.SendCommit(handle, packet, delay)
	if err != nil {
		return MessageID{}, err
	}
	rid := id
	m.SentMessages[len(m.SentMessages)-1].Reservation = &rid
	return mid, nil
}

func (m *MockExt) reply(packet ReplyPacket, delay uint32) (MessageID, error) {
	if m.replySent {
		return MessageID{}, ErrDuplicateReply
	}
	if err := m.chargeValue(&packet.Value); err != nil {
		return MessageID{}, err
	}
	payload := packet.Payload
	if out, ok := m.outgoing[replyHandle]; ok {
		payload = append(append([]byte(nil), out.payload...), payload...)
		delete(m.outgoing, replyHandle)
	}
	m.replySent = true
	id := MessageID(m.nextID('r'))
	m.SentReplies = append(m.SentReplies, SentReply{
		ID:       id,
		Payload:  payload,
		Value:    packet.Value,
		GasLimit: packet.GasLimit,
		Delay:    delay,
	})
	return id, nil
}

func (m *MockExt) Reply(packet ReplyPacket, delay uint32) (MessageID, error) {
	return m.reply(packet, delay)
}

func (m *MockExt) ReplyCommit(packet ReplyPacket, delay uint32) (MessageID, error) {
	return m.reply(packet, delay)
}

func (m *MockExt) ReplyPush(payload []byte) error {
	if m.replySent {
		return ErrLateAccess
	}
	// Pushed bytes are prepended to the final reply payload on commit; the
	// mock keeps them in a dedicated pending handle.
	out, ok := m.outgoing[replyHandle]
	if !ok {
		out = &outgoingMessage{}
		m.outgoing[replyHandle] = out
	}
	out.payload = append(out.payload, payload...)
	return nil
}

// replyHandle is a reserved handle for reply_push accumulation. Real handles
// start at zero and grow, so the top of the range never collides.
const replyHandle = ^uint32(0)

func (m *MockExt) ReplyPushInput(at, length uint32) error {
	slice, err := m.PayloadSlice(at, length)
	if err != nil {
		return err
	}
	return m.ReplyPush(slice)
}

func (m *MockExt) ReservationReply(id ReservationID, packet ReplyPacket, delay uint32) (MessageID, error) {
	if _, ok := m.reservations[id]; !ok {
		return MessageID{}, ErrUnknownReservation
	}
	delete(m.reservations, id)
	return m.reply(packet, delay)
}

func (m *MockExt) ReservationReplyCommit(id ReservationID, packet ReplyPacket, delay uint32) (MessageID, error) {
	return m.ReservationReply(id, packet, delay)
}

func (m *MockExt) ReplyTo() (MessageID, error) {
	if m.RepliedTo == nil {
		return MessageID{}, ErrNoReplyContext
	}
	return *m.RepliedTo, nil
}

func (m *MockExt) SignalFrom() (MessageID, error) {
	if m.SignalledBy == nil {
		return MessageID{}, ErrNoSignalContext
	}
	return *m.SignalledBy, nil
}

func (m *MockExt) StatusCode() (int32, error) {
	if m.StatusCodeValue == nil {
		return 0, ErrNoStatusCode
	}
	return *m.StatusCodeValue, nil
}

func (m *MockExt) Exit(inheritor ActorID) error {
	m.ExitInheritor = &inheritor
	m.Balance.Clear()
	return nil
}

func (m *MockExt) Leave() error { return nil }
func (m *MockExt) Wait() error  { return nil }

func (m *MockExt) WaitFor(duration uint32) error {
	if duration == 0 {
		return ErrSyscallUsage
	}
	return nil
}

func (m *MockExt) WaitUpTo(duration uint32) (bool, error) {
	if duration == 0 {
		return false, ErrSyscallUsage
	}
	return m.WaitUpToFull, nil
}

func (m *MockExt) Wake(id MessageID, delay uint32) error {
	m.Woken = append(m.Woken, WokenMessage{ID: id, Delay: delay})
	return nil
}

func (m *MockExt) CreateProgram(packet InitPacket, delay uint32) (MessageID, ActorID, error) {
	if err := m.chargeValue(&packet.Value); err != nil {
		return MessageID{}, ActorID{}, err
	}
	mid := MessageID(m.nextID('m'))
	pid := ActorID(m.nextID('p'))
	m.CreatedPrograms = append(m.CreatedPrograms, CreatedProgram{
		MessageID: mid,
		ProgramID: pid,
		CodeID:    packet.CodeID,
		Salt:      packet.Salt,
		Payload:   packet.Payload,
	})
	return mid, pid, nil
}

func (m *MockExt) ReserveGas(amount uint64, duration uint32) (ReservationID, error) {
	if duration == 0 {
		return ReservationID{}, ErrSyscallUsage
	}
	if amount > m.Meter.GasLeft() {
		return ReservationID{}, ErrInsufficientGas
	}
	if err := m.Meter.Charge(amount); err != nil {
		return ReservationID{}, err
	}
	id := ReservationID(m.nextID('g'))
	m.reservations[id] = amount
	return id, nil
}

func (m *MockExt) UnreserveGas(id ReservationID) (uint64, error) {
	amount, ok := m.reservations[id]
	if !ok {
		return 0, ErrUnknownReservation
	}
	delete(m.reservations, id)
	m.Meter.Refund(amount)
	return amount, nil
}

func (m *MockExt) SystemReserveGas(amount uint64) error {
	if amount > m.Meter.GasLeft() {
		return ErrInsufficientGas
	}
	if err := m.Meter.Charge(amount); err != nil {
		return err
	}
	m.systemReserve += amount
	return nil
}

// SystemReserved returns the accumulated system reservation.
func (m *MockExt) SystemReserved() uint64 {
	return m.systemReserve
}

// Reservations returns a copy of the live reservations.
func (m *MockExt) Reservations() map[ReservationID]uint64 {
	out := make(map[ReservationID]uint64, len(m.reservations))
	for k, v := range m.reservations {
		out[k] = v
	}
	return out
}

func (m *MockExt) Random(subject []byte) (uint32, codec.Hash, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return 0, codec.Hash{}, err
	}
	h.Write(subject)
	h.Write(m.Randomness[:])
	var out codec.Hash
	copy(out[:], h.Sum(nil))
	return m.BlockHeightValue + 1, out, nil
}

func (m *MockExt) Debug(msg string) error {
	m.DebugMessages = append(m.DebugMessages, msg)
	return nil
}
