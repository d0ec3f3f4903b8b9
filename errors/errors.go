package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in syscall processing the error occurred
type Phase string

const (
	PhaseMemory   Phase = "memory"   // guest memory access
	PhaseDecode   Phase = "decode"   // wire record decoding
	PhaseEncode   Phase = "encode"   // wire record encoding
	PhaseDispatch Phase = "dispatch" // argument unpacking, entry lookup
	PhaseExecute  Phase = "execute"  // syscall body execution
	PhaseHost     Phase = "host"     // host operation
	PhaseEngine   Phase = "engine"   // underlying WASM engine
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds       Kind = "out_of_bounds"
	KindOverflow          Kind = "overflow"
	KindSizeMismatch      Kind = "size_mismatch"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindInvalidArguments  Kind = "invalid_arguments"
	KindForbiddenFunction Kind = "forbidden_function"
	KindUnknownSyscall    Kind = "unknown_syscall"
	KindTicketReuse       Kind = "ticket_reuse"
	KindGuestPanic        Kind = "guest_panic"
	KindUnreachable       Kind = "unreachable"
	KindLoad              Kind = "load"
	KindInstantiation     Kind = "instantiation"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause   error
	Phase   Phase
	Kind    Kind
	Syscall string
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Syscall != "" {
		b.WriteString(" in ")
		b.WriteString(e.Syscall)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches against another *Error by Phase and Kind. Empty fields on the
// target act as wildcards, so errors.Is(err, &Error{Kind: KindOutOfBounds})
// matches any out-of-bounds error regardless of phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return true
}

// Builder constructs structured errors fluently
type Builder struct {
	err Error
}

func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Syscall(name string) *Builder {
	b.err.Syscall = name
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	b.err.Detail = msg
	return b
}

func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// OutOfBounds creates an error for a guest interval outside linear memory
func OutOfBounds(phase Phase, offset, size, memSize uint32) *Error {
	return New(phase, KindOutOfBounds).
		Detail("interval [%d, +%d) exceeds memory of %d bytes", offset, size, memSize).
		Build()
}

// Overflow creates an error for offset+size exceeding the 32-bit address space
func Overflow(phase Phase, offset, size uint32) *Error {
	return New(phase, KindOverflow).
		Detail("interval [%d, +%d) overflows 32-bit address space", offset, size).
		Build()
}

// SizeMismatch creates an error for a buffer whose length does not match the
// registered or declared size
func SizeMismatch(phase Phase, want, got int) *Error {
	return New(phase, KindSizeMismatch).
		Detail("expected %d bytes, got %d", want, got).
		Build()
}

// InvalidData creates an error for malformed wire data
func InvalidData(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalidData).Detail(detail, args...).Build()
}

// InvalidUTF8 creates an error for byte regions that must hold UTF-8 text
func InvalidUTF8(syscall string) *Error {
	return New(PhaseExecute, KindInvalidUTF8).
		Syscall(syscall).
		Detail("payload is not valid UTF-8").
		Build()
}

// InvalidArguments creates an error for a raw argument list that does not
// match the entry signature
func InvalidArguments(syscall string, want, got int) *Error {
	return New(PhaseDispatch, KindInvalidArguments).
		Syscall(syscall).
		Detail("expected %d raw arguments, got %d", want, got).
		Build()
}

// Forbidden creates the error raised when a disabled syscall is invoked
func Forbidden(syscall string) *Error {
	return New(PhaseDispatch, KindForbiddenFunction).
		Syscall(syscall).
		Detail("forbidden function").
		Build()
}

// UnknownSyscall creates an error for a name absent from the dispatch table
func UnknownSyscall(name string) *Error {
	return New(PhaseDispatch, KindUnknownSyscall).
		Detail("no dispatch entry named %q", name).
		Build()
}

// TicketReuse creates an error for a memory access ticket consumed twice
func TicketReuse(phase Phase) *Error {
	return New(phase, KindTicketReuse).
		Detail("access ticket already consumed").
		Build()
}

// GuestPanic creates the error carried by a trap raised from the guest's
// own panic syscall
func GuestPanic(msg string) *Error {
	return New(PhaseExecute, KindGuestPanic).Detail("%s", msg).Build()
}

// Unreachable creates an error for states the bridge considers impossible.
// It exists so invariant violations surface as traps instead of panics.
func Unreachable(detail string, args ...any) *Error {
	return New(PhaseExecute, KindUnreachable).Detail(detail, args...).Build()
}

// Load wraps a module loading error
func Load(detail string, cause error) *Error {
	return New(PhaseEngine, KindLoad).Detail(detail).Cause(cause).Build()
}

// Instantiation wraps a module instantiation error
func Instantiation(cause error) *Error {
	return New(PhaseEngine, KindInstantiation).
		Detail("module instantiation failed").
		Cause(cause).
		Build()
}

// Wrap attaches phase/kind context to an underlying error
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Detail(detail).Cause(cause).Build()
}
