package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageFormat(t *testing.T) {
	err := New(PhaseMemory, KindOutOfBounds).
		Syscall("send").
		Detail("interval [%d, +%d)", 10, 20).
		Build()
	require.Equal(t, "[memory] out_of_bounds in send: interval [10, +20)", err.Error())
}

func TestErrorIncludesCause(t *testing.T) {
	cause := fmt.Errorf("engine said no")
	err := Wrap(PhaseEngine, KindInstantiation, cause, "boot failed")
	require.Contains(t, err.Error(), "engine said no")
	require.ErrorIs(t, err, cause)
}

func TestIsMatchesByPhaseAndKind(t *testing.T) {
	err := OutOfBounds(PhaseMemory, 0, 10, 5)

	require.ErrorIs(t, err, &Error{Phase: PhaseMemory, Kind: KindOutOfBounds})
	require.ErrorIs(t, err, &Error{Kind: KindOutOfBounds}, "empty phase is a wildcard")
	require.ErrorIs(t, err, &Error{Phase: PhaseMemory}, "empty kind is a wildcard")
	require.NotErrorIs(t, err, &Error{Kind: KindOverflow})
	require.NotErrorIs(t, err, &Error{Phase: PhaseDecode, Kind: KindOutOfBounds})
}

func TestIsIgnoresForeignErrors(t *testing.T) {
	err := Forbidden("send")
	require.NotErrorIs(t, err, stderrors.New("forbidden"))
}

func TestBuilderCopiesOnBuild(t *testing.T) {
	b := New(PhaseExecute, KindInvalidData)
	first := b.Detail("one").Build()
	second := b.Detail("two").Build()
	require.Equal(t, "one", first.Detail)
	require.Equal(t, "two", second.Detail)
}

func TestConstructors(t *testing.T) {
	require.Equal(t, KindOverflow, Overflow(PhaseMemory, 1, 2).Kind)
	require.Equal(t, KindSizeMismatch, SizeMismatch(PhaseDecode, 4, 8).Kind)
	require.Equal(t, "send", Forbidden("send").Syscall)
	require.Equal(t, KindUnknownSyscall, UnknownSyscall("nope").Kind)
	require.Equal(t, KindInvalidUTF8, InvalidUTF8("debug").Kind)
	require.Equal(t, KindTicketReuse, TicketReuse(PhaseMemory).Kind)
	require.Contains(t, GuestPanic("boom").Error(), "boom")
}
