package syscalls

import (
	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/host"
)

// send dispatches a complete message in one call: destination and value are
// packed at pidValuePtr, the payload is a guest memory region.
func send() *Entry {
	return &Entry{
		Name:      "send",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			pidValuePtr := arg32(args, 0)
			payloadPtr := arg32(args, 1)
			payloadLen := arg32(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var dest codec.HashWithValue
				destTicket := c.RegisterReadAs(pidValuePtr, &dest)
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)

				if err := c.ReadAs(destTicket, &dest); err != nil {
					return err
				}
				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}

				mid, err := c.Ext().Send(host.SendPacket{
					Destination: host.ActorID(dest.Hash),
					Payload:     payload,
					Value:       dest.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func sendWGas() *Entry {
	return &Entry{
		Name:      "send_wgas",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I64, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			pidValuePtr := arg32(args, 0)
			payloadPtr := arg32(args, 1)
			payloadLen := arg32(args, 2)
			gasLimit := arg64(args, 3)
			delay := arg32(args, 4)
			resPtr := arg32(args, 5)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var dest codec.HashWithValue
				destTicket := c.RegisterReadAs(pidValuePtr, &dest)
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)

				if err := c.ReadAs(destTicket, &dest); err != nil {
					return err
				}
				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}

				mid, err := c.Ext().Send(host.SendPacket{
					Destination: host.ActorID(dest.Hash),
					Payload:     payload,
					GasLimit:    &gasLimit,
					Value:       dest.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

// sendCommit finalizes a handle built up with send_push.
func sendCommit() *Entry {
	return &Entry{
		Name:      "send_commit",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			handle := arg32(args, 0)
			pidValuePtr := arg32(args, 1)
			delay := arg32(args, 2)
			resPtr := arg32(args, 3)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var dest codec.HashWithValue
				if err := c.ReadAs(c.RegisterReadAs(pidValuePtr, &dest), &dest); err != nil {
					return err
				}
				mid, err := c.Ext().SendCommit(handle, host.SendPacket{
					Destination: host.ActorID(dest.Hash),
					Value:       dest.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func sendCommitWGas() *Entry {
	return &Entry{
		Name:      "send_commit_wgas",
		Kind:      KindFallible,
		Signature: params(I32, I32, I64, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			handle := arg32(args, 0)
			pidValuePtr := arg32(args, 1)
			gasLimit := arg64(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var dest codec.HashWithValue
				if err := c.ReadAs(c.RegisterReadAs(pidValuePtr, &dest), &dest); err != nil {
					return err
				}
				mid, err := c.Ext().SendCommit(handle, host.SendPacket{
					Destination: host.ActorID(dest.Hash),
					GasLimit:    &gasLimit,
					Value:       dest.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func sendInit() *Entry {
	return &Entry{
		Name:      "send_init",
		Kind:      KindFallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			resPtr := arg32(args, 0)

			var out codec.LengthWithHandle
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				handle, err := c.Ext().SendInit()
				if err != nil {
					return err
				}
				out.Handle = handle
				return nil
			})
		},
	}
}

func sendPush() *Entry {
	return &Entry{
		Name:      "send_push",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			handle := arg32(args, 0)
			payloadPtr := arg32(args, 1)
			payloadLen := arg32(args, 2)
			resPtr := arg32(args, 3)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				payload, err := c.Read(c.RegisterRead(payloadPtr, payloadLen))
				if err != nil {
					return err
				}
				return c.Ext().SendPush(handle, payload)
			})
		},
	}
}

// sendInput sends a slice of the incoming payload without copying it through
// guest memory.
func sendInput() *Entry {
	return &Entry{
		Name:      "send_input",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			pidValuePtr := arg32(args, 0)
			at := arg32(args, 1)
			length := arg32(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var dest codec.HashWithValue
				if err := c.ReadAs(c.RegisterReadAs(pidValuePtr, &dest), &dest); err != nil {
					return err
				}
				mid, err := sendInputSlice(c, host.SendPacket{
					Destination: host.ActorID(dest.Hash),
					Value:       dest.Value,
				}, at, length, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func sendInputWGas() *Entry {
	return &Entry{
		Name:      "send_input_wgas",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I64, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			pidValuePtr := arg32(args, 0)
			at := arg32(args, 1)
			length := arg32(args, 2)
			gasLimit := arg64(args, 3)
			delay := arg32(args, 4)
			resPtr := arg32(args, 5)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var dest codec.HashWithValue
				if err := c.ReadAs(c.RegisterReadAs(pidValuePtr, &dest), &dest); err != nil {
					return err
				}
				mid, err := sendInputSlice(c, host.SendPacket{
					Destination: host.ActorID(dest.Hash),
					GasLimit:    &gasLimit,
					Value:       dest.Value,
				}, at, length, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

// sendInputSlice composes init, push-from-input and commit into the one-shot
// input send.
func sendInputSlice(c *bridge.CallContext, packet host.SendPacket, at, length, delay uint32) (host.MessageID, error) {
	ext := c.Ext()
	handle, err := ext.SendInit()
	if err != nil {
		return host.MessageID{}, err
	}
	if err := ext.SendPushInput(handle, at, length); err != nil {
		return host.MessageID{}, err
	}
	return ext.SendCommit(handle, packet, delay)
}

func sendPushInput() *Entry {
	return &Entry{
		Name:      "send_push_input",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			handle := arg32(args, 0)
			at := arg32(args, 1)
			length := arg32(args, 2)
			resPtr := arg32(args, 3)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				return c.Ext().SendPushInput(handle, at, length)
			})
		},
	}
}

// reservationSend sends from a gas reservation. The reservation id,
// destination and value are packed together at ridPidValuePtr.
func reservationSend() *Entry {
	return &Entry{
		Name:      "reservation_send",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ridPidValuePtr := arg32(args, 0)
			payloadPtr := arg32(args, 1)
			payloadLen := arg32(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var packed codec.TwoHashesWithValue
				packedTicket := c.RegisterReadAs(ridPidValuePtr, &packed)
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)

				if err := c.ReadAs(packedTicket, &packed); err != nil {
					return err
				}
				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}

				mid, err := c.Ext().ReservationSend(host.ReservationID(packed.Hash1), host.SendPacket{
					Destination: host.ActorID(packed.Hash2),
					Payload:     payload,
					Value:       packed.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func reservationSendCommit() *Entry {
	return &Entry{
		Name:      "reservation_send_commit",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			handle := arg32(args, 0)
			ridPidValuePtr := arg32(args, 1)
			delay := arg32(args, 2)
			resPtr := arg32(args, 3)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var packed codec.TwoHashesWithValue
				if err := c.ReadAs(c.RegisterReadAs(ridPidValuePtr, &packed), &packed); err != nil {
					return err
				}
				mid, err := c.Ext().ReservationSendCommit(host.ReservationID(packed.Hash1), handle, host.SendPacket{
					Destination: host.ActorID(packed.Hash2),
					Value:       packed.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}
