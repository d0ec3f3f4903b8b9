package bridge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	syscallbridge "github.com/wippyai/syscall-bridge"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
)

type testMemory struct {
	data []byte
}

func newTestMemory(pages uint32) *testMemory {
	return &testMemory{data: make([]byte, pages*syscallbridge.PageSize)}
}

func (m *testMemory) Size() uint32 {
	return uint32(len(m.data))
}

func (m *testMemory) Grow(pages uint32) error {
	m.data = append(m.data, make([]byte, pages*syscallbridge.PageSize)...)
	return nil
}

func (m *testMemory) Read(offset uint32, buf []byte) error {
	if int(offset)+len(buf) > len(m.data) {
		return fmt.Errorf("read past end")
	}
	copy(buf, m.data[offset:])
	return nil
}

func (m *testMemory) Write(offset uint32, data []byte) error {
	if int(offset)+len(data) > len(m.data) {
		return fmt.Errorf("write past end")
	}
	copy(m.data[offset:], data)
	return nil
}

func newTestState(t *testing.T) (*State, *testMemory) {
	t.Helper()
	mem := newTestMemory(1)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)
	return NewState(ext, mem, nil), mem
}

func TestRunCommitsStagedWrites(t *testing.T) {
	state, mem := newTestState(t)
	c, err := NewCall(state, "test")
	require.NoError(t, err)

	err = c.Run(func(c *CallContext) error {
		return c.StageWrite(c.RegisterWrite(10, 3), []byte("abc"))
	})
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), mem.data[10:13])
}

func TestRunFatalDiscardsStagedWrites(t *testing.T) {
	state, mem := newTestState(t)
	c, err := NewCall(state, "test")
	require.NoError(t, err)

	boom := fmt.Errorf("boom")
	err = c.Run(func(c *CallContext) error {
		if err := c.StageWrite(c.RegisterWrite(10, 3), []byte("abc")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, ErrTerminated)
	require.Equal(t, []byte{0, 0, 0}, mem.data[10:13])

	reason, ok := state.Termination()
	require.True(t, ok)
	require.Equal(t, TerminationTrap, reason.Kind())
	require.ErrorIs(t, reason.Trap(), boom)
}

func TestRunChargesEntryCost(t *testing.T) {
	mem := newTestMemory(1)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)
	costs := gas.DefaultSchedule()
	state := NewState(ext, mem, costs)

	c, err := NewCall(state, "send")
	require.NoError(t, err)
	require.NoError(t, c.Run(func(c *CallContext) error { return nil }))

	want := 1_000_000 - costs.CostOf("send")
	require.Equal(t, want, ext.Meter.GasLeft())
}

func TestForbiddenCallTerminates(t *testing.T) {
	state, _ := newTestState(t)
	state.Forbid("debug")

	_, err := NewCall(state, "debug")
	require.ErrorIs(t, err, ErrTerminated)

	reason, ok := state.Termination()
	require.True(t, ok)
	require.Equal(t, TerminationTrap, reason.Kind())
	require.ErrorIs(t, reason.Trap(), &errors.Error{Kind: errors.KindForbiddenFunction})
}

func TestTerminationFirstReasonWins(t *testing.T) {
	state, _ := newTestState(t)

	c, _ := NewCall(state, "first")
	_ = c.Fatal(Terminate(LeaveTermination()))

	c2, _ := NewCall(state, "second")
	_ = c2.Fatal(fmt.Errorf("later trap"))

	reason, ok := state.Termination()
	require.True(t, ok)
	require.Equal(t, TerminationLeave, reason.Kind())
}

func TestFatalClassifiesGasErrors(t *testing.T) {
	state, _ := newTestState(t)
	c, _ := NewCall(state, "a")
	require.ErrorIs(t, c.Fatal(gas.ErrGasLimitExceeded), ErrTerminated)
	reason, _ := state.Termination()
	require.Equal(t, TerminationOutOfGas, reason.Kind())

	state2, _ := newTestState(t)
	c2, _ := NewCall(state2, "a")
	_ = c2.Fatal(gas.ErrAllowanceExceeded)
	reason2, _ := state2.Termination()
	require.Equal(t, TerminationOutOfAllowance, reason2.Kind())
}

func TestRunFallibleRecoverableError(t *testing.T) {
	state, mem := newTestState(t)
	c, err := NewCall(state, "test")
	require.NoError(t, err)

	var out lengthOnly
	err = c.RunFallible(100, &out, func(c *CallContext) error {
		return host.ErrUnknownHandle
	})
	require.NoError(t, err, "recoverable failures do not stop the guest")

	require.Equal(t, host.CodeUnknownHandle, out.code)
	require.Equal(t, byte(host.CodeUnknownHandle), mem.data[100])
	require.Equal(t, host.CodeUnknownHandle, state.LastError().Code)

	_, terminated := state.Termination()
	require.False(t, terminated)
}

func TestRunFallibleClearsLastError(t *testing.T) {
	state, _ := newTestState(t)

	c, _ := NewCall(state, "failing")
	var out lengthOnly
	require.NoError(t, c.RunFallible(100, &out, func(c *CallContext) error {
		return host.ErrUnknownHandle
	}))
	require.NotNil(t, state.LastError())

	c2, _ := NewCall(state, "succeeding")
	var out2 lengthOnly
	require.NoError(t, c2.RunFallible(100, &out2, func(c *CallContext) error {
		return nil
	}))
	require.Nil(t, state.LastError(), "a successful fallible call clears the slot")
}

func TestRunFallibleNonExtErrorIsFatal(t *testing.T) {
	state, mem := newTestState(t)
	c, _ := NewCall(state, "test")

	mem.data[100] = 0xEE
	var out lengthOnly
	err := c.RunFallible(100, &out, func(c *CallContext) error {
		return fmt.Errorf("infrastructure broke")
	})
	require.ErrorIs(t, err, ErrTerminated)
	// Nothing reached guest memory, result record included.
	require.Equal(t, byte(0xEE), mem.data[100])

	reason, ok := state.Termination()
	require.True(t, ok)
	require.Equal(t, TerminationTrap, reason.Kind())
}

func TestRunSystemSentinel(t *testing.T) {
	state, _ := newTestState(t)
	c, _ := NewCall(state, "test")

	v, err := c.RunSystem(0xFFFF, func(c *CallContext) (uint32, error) {
		return 0, host.ErrAllocLimit
	})
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFF), v)

	_, terminated := state.Termination()
	require.False(t, terminated)
}

func TestRunSystemSuccessValue(t *testing.T) {
	state, _ := newTestState(t)
	c, _ := NewCall(state, "test")

	v, err := c.RunSystem(0xFFFF, func(c *CallContext) (uint32, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

func TestPrepareFailureIsFatalBeforeHostOp(t *testing.T) {
	state, _ := newTestState(t)
	c, _ := NewCall(state, "test")

	hostOpRan := false
	var out lengthOnly
	err := c.RunFallible(100, &out, func(c *CallContext) error {
		// Out of the one-page memory.
		rt := c.RegisterRead(syscallbridge.PageSize, 8)
		if _, err := c.Read(rt); err != nil {
			return err
		}
		hostOpRan = true
		return nil
	})
	require.ErrorIs(t, err, ErrTerminated)
	require.False(t, hostOpRan)

	reason, _ := state.Termination()
	require.Equal(t, TerminationTrap, reason.Kind())
	require.ErrorIs(t, reason.Trap(), &errors.Error{Kind: errors.KindOutOfBounds})
}

// lengthOnly is a minimal error-coded record for wrapper tests.
type lengthOnly struct {
	code uint32
}

func (r *lengthOnly) EncodedLen() int { return 4 }

func (r *lengthOnly) Encode(dst []byte) error {
	if len(dst) != 4 {
		return fmt.Errorf("bad length")
	}
	dst[0] = byte(r.code)
	dst[1] = byte(r.code >> 8)
	dst[2] = byte(r.code >> 16)
	dst[3] = byte(r.code >> 24)
	return nil
}

func (r *lengthOnly) Decode(src []byte) error {
	if len(src) != 4 {
		return fmt.Errorf("bad length")
	}
	r.code = uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
	return nil
}

func (r *lengthOnly) SetError(code uint32) {
	r.code = code
}
