package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/syscall-bridge/gas"
)

func newMock(gasLimit uint64, payload []byte) *MockExt {
	return NewMockExt(gas.NewMeter(gasLimit, gasLimit), payload)
}

func TestIDsAreDeterministic(t *testing.T) {
	a := newMock(1000, nil)
	b := newMock(1000, nil)
	a.ProgID = ActorID{1}
	b.ProgID = ActorID{1}

	m1, err := a.Send(SendPacket{}, 0)
	require.NoError(t, err)
	m2, err := b.Send(SendPacket{}, 0)
	require.NoError(t, err)
	require.Equal(t, m1, m2)

	// Same mock, next id differs.
	m3, err := a.Send(SendPacket{}, 0)
	require.NoError(t, err)
	require.NotEqual(t, m1, m3)
}

func TestSendChargesValue(t *testing.T) {
	m := newMock(1000, nil)
	m.Balance.SetUint64(100)

	var packet SendPacket
	packet.Value.SetUint64(70)
	_, err := m.Send(packet, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(30), m.Balance.Uint64())

	packet.Value.SetUint64(31)
	_, err = m.Send(packet, 0)
	require.ErrorIs(t, err, ErrInsufficientValue)
	require.Len(t, m.SentMessages, 1)
}

func TestPayloadSliceBounds(t *testing.T) {
	m := newMock(1000, []byte("0123456789"))

	s, err := m.PayloadSlice(2, 3)
	require.NoError(t, err)
	require.Equal(t, []byte("234"), s)

	_, err = m.PayloadSlice(8, 3)
	require.ErrorIs(t, err, ErrReadWrongRange)

	// at+length overflowing 32 bits must not wrap.
	_, err = m.PayloadSlice(^uint32(0), 2)
	require.ErrorIs(t, err, ErrReadWrongRange)
}

func TestHandleLifecycle(t *testing.T) {
	m := newMock(1000, nil)

	h, err := m.SendInit()
	require.NoError(t, err)
	require.NoError(t, m.SendPush(h, []byte("ab")))
	require.NoError(t, m.SendPush(h, []byte("cd")))

	_, err = m.SendCommit(h, SendPacket{Payload: []byte("ef")}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("abcdef"), m.SentMessages[0].Payload)

	// Committed handles reject further use.
	require.ErrorIs(t, m.SendPush(h, []byte("x")), ErrLateAccess)
	_, err = m.SendCommit(h, SendPacket{}, 0)
	require.ErrorIs(t, err, ErrLateAccess)

	require.ErrorIs(t, m.SendPush(99, nil), ErrUnknownHandle)
}

func TestReplyOncePerExecution(t *testing.T) {
	m := newMock(1000, nil)

	_, err := m.Reply(ReplyPacket{Payload: []byte("a")}, 0)
	require.NoError(t, err)
	_, err = m.Reply(ReplyPacket{}, 0)
	require.ErrorIs(t, err, ErrDuplicateReply)
	require.ErrorIs(t, m.ReplyPush([]byte("b")), ErrLateAccess)
}

func TestReplyPushPrependsOnCommit(t *testing.T) {
	m := newMock(1000, nil)

	require.NoError(t, m.ReplyPush([]byte("hel")))
	require.NoError(t, m.ReplyPush([]byte("lo ")))
	_, err := m.ReplyCommit(ReplyPacket{Payload: []byte("world")}, 0)
	require.NoError(t, err)

	require.Len(t, m.SentReplies, 1)
	require.Equal(t, []byte("hello world"), m.SentReplies[0].Payload)
}

func TestReservationLifecycle(t *testing.T) {
	m := newMock(10_000, nil)

	rid, err := m.ReserveGas(4000, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(6000), m.Meter.GasLeft())

	amount, err := m.UnreserveGas(rid)
	require.NoError(t, err)
	require.Equal(t, uint64(4000), amount)
	require.Equal(t, uint64(10_000), m.Meter.GasLeft())

	_, err = m.UnreserveGas(rid)
	require.ErrorIs(t, err, ErrUnknownReservation)
}

func TestReserveGasValidation(t *testing.T) {
	m := newMock(100, nil)

	_, err := m.ReserveGas(50, 0)
	require.ErrorIs(t, err, ErrSyscallUsage)

	_, err = m.ReserveGas(101, 10)
	require.ErrorIs(t, err, ErrInsufficientGas)
}

func TestReservationSendConsumesReservation(t *testing.T) {
	m := newMock(10_000, nil)

	rid, err := m.ReserveGas(1000, 5)
	require.NoError(t, err)

	_, err = m.ReservationSend(rid, SendPacket{Payload: []byte("x")}, 0)
	require.NoError(t, err)
	require.NotNil(t, m.SentMessages[0].Reservation)
	require.Equal(t, rid, *m.SentMessages[0].Reservation)

	_, err = m.ReservationSend(rid, SendPacket{}, 0)
	require.ErrorIs(t, err, ErrUnknownReservation)
}

func TestSystemReserveGas(t *testing.T) {
	m := newMock(100, nil)

	require.NoError(t, m.SystemReserveGas(40))
	require.NoError(t, m.SystemReserveGas(20))
	require.Equal(t, uint64(60), m.SystemReserved())
	require.Equal(t, uint64(40), m.Meter.GasLeft())

	require.ErrorIs(t, m.SystemReserveGas(41), ErrInsufficientGas)
}

func TestAllocTracksPages(t *testing.T) {
	m := newMock(1000, nil)
	m.MaxPages = 4
	mem := &fakeGrowMemory{}

	first, err := m.Alloc(3, mem)
	require.NoError(t, err)
	require.Zero(t, first)
	require.Equal(t, uint32(3), mem.grown)

	_, err = m.Alloc(2, mem)
	require.ErrorIs(t, err, ErrAllocLimit)

	first, err = m.Alloc(1, mem)
	require.NoError(t, err)
	require.Equal(t, uint32(3), first)
}

func TestFreeValidatesRange(t *testing.T) {
	m := newMock(1000, nil)
	mem := &fakeGrowMemory{}
	_, err := m.Alloc(4, mem)
	require.NoError(t, err)

	require.NoError(t, m.Free(2))
	require.ErrorIs(t, m.Free(4), ErrInvalidFreeRange)
	require.NoError(t, m.FreeRange(1, 3))
	require.ErrorIs(t, m.FreeRange(3, 1), ErrInvalidFreeRange)
	require.ErrorIs(t, m.FreeRange(1, 4), ErrInvalidFreeRange)
}

func TestWaitValidation(t *testing.T) {
	m := newMock(1000, nil)
	require.NoError(t, m.Wait())
	require.ErrorIs(t, m.WaitFor(0), ErrSyscallUsage)
	require.NoError(t, m.WaitFor(5))

	_, err := m.WaitUpTo(0)
	require.ErrorIs(t, err, ErrSyscallUsage)

	full, err := m.WaitUpTo(5)
	require.NoError(t, err)
	require.False(t, full)

	m.WaitUpToFull = true
	full, err = m.WaitUpTo(5)
	require.NoError(t, err)
	require.True(t, full)
}

func TestExitClearsBalance(t *testing.T) {
	m := newMock(1000, nil)
	m.Balance.SetUint64(500)

	require.NoError(t, m.Exit(ActorID{7}))
	require.True(t, m.Balance.IsZero())
	require.Equal(t, ActorID{7}, *m.ExitInheritor)
}

func TestExtErrorEncoding(t *testing.T) {
	e := NewExtError(0x42, "custom failure")
	enc := e.Encode()
	require.Len(t, enc, 8+len("custom failure"))

	got, err := DecodeExtError(enc)
	require.NoError(t, err)
	require.Equal(t, e.Code, got.Code)
	require.Equal(t, e.Msg, got.Msg)

	_, err = DecodeExtError(enc[:6])
	require.Error(t, err)
}

// fakeGrowMemory counts grow requests; reads and writes are unused by the
// alloc path.
type fakeGrowMemory struct {
	grown uint32
}

func (m *fakeGrowMemory) Size() uint32 { return m.grown * 65536 }

func (m *fakeGrowMemory) Grow(pages uint32) error {
	m.grown += pages
	return nil
}

func (m *fakeGrowMemory) Read(offset uint32, buf []byte) error {
	return ErrReadWrongRange
}

func (m *fakeGrowMemory) Write(offset uint32, data []byte) error {
	return ErrReadWrongRange
}
