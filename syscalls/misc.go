package syscalls

import (
	"unicode/utf8"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/errors"
	"github.com/wippyai/syscall-bridge/host"
)

// debug emits a host-side log line on behalf of the guest. The message must
// be valid UTF-8.
func debug() *Entry {
	return &Entry{
		Name:      "debug",
		Kind:      KindInfallible,
		Signature: params(I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			msgPtr := arg32(args, 0)
			msgLen := arg32(args, 1)

			return 0, c.Run(func(c *bridge.CallContext) error {
				msg, err := c.Read(c.RegisterRead(msgPtr, msgLen))
				if err != nil {
					return err
				}
				if !utf8.Valid(msg) {
					return errors.InvalidUTF8("debug")
				}
				return c.Ext().Debug(string(msg))
			})
		},
	}
}

// panicWith traps the execution with a guest-supplied message. Invalid UTF-8
// is carried lossily so the trap reason survives regardless.
func panicWith() *Entry {
	return &Entry{
		Name:      "panic",
		Kind:      KindInfallible,
		Signature: params(I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			msgPtr := arg32(args, 0)
			msgLen := arg32(args, 1)

			return 0, c.Run(func(c *bridge.CallContext) error {
				msg, err := c.Read(c.RegisterRead(msgPtr, msgLen))
				if err != nil {
					return err
				}
				return bridge.Terminate(bridge.TrapTermination(errors.GuestPanic(string(msg))))
			})
		},
	}
}

// lastError exposes the packed form of the previous fallible syscall's
// error. Two modes share the entry: when bufPtr is the sentinel only the
// packed length is written to sizePtr, letting the guest size its buffer
// first; otherwise the packed bytes are written to bufPtr. Asking with no
// prior failure recorded is itself a guest-visible usage error.
func lastError() *Entry {
	return &Entry{
		Name:      "error",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			bufPtr := arg32(args, 0)
			sizePtr := arg32(args, 1)
			resPtr := arg32(args, 2)

			// RunFallible clears the slot, so capture first.
			last := c.State().LastError()

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				if last == nil {
					return host.ErrSyscallUsage
				}
				enc := last.Encode()
				if bufPtr == PtrSpecial {
					return stageU32(c, c.RegisterWrite(sizePtr, 4), uint32(len(enc)))
				}
				return c.StageWrite(c.RegisterWrite(bufPtr, uint32(len(enc))), enc)
			})
		},
	}
}
