package syscalls

import (
	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/host"
)

// reply answers the currently processed message. The value pointer is
// optional; PtrSpecial means zero value.
func reply() *Entry {
	return &Entry{
		Name:      "reply",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			payloadPtr := arg32(args, 0)
			payloadLen := arg32(args, 1)
			valuePtr := arg32(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)
				value := registerValue(c, valuePtr)

				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}
				v, err := value.read(c)
				if err != nil {
					return err
				}

				mid, err := c.Ext().Reply(host.ReplyPacket{Payload: payload, Value: v}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func replyWGas() *Entry {
	return &Entry{
		Name:      "reply_wgas",
		Kind:      KindFallible,
		Signature: params(I32, I32, I64, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			payloadPtr := arg32(args, 0)
			payloadLen := arg32(args, 1)
			gasLimit := arg64(args, 2)
			valuePtr := arg32(args, 3)
			delay := arg32(args, 4)
			resPtr := arg32(args, 5)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)
				value := registerValue(c, valuePtr)

				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}
				v, err := value.read(c)
				if err != nil {
					return err
				}

				mid, err := c.Ext().Reply(host.ReplyPacket{
					Payload:  payload,
					GasLimit: &gasLimit,
					Value:    v,
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

// replyCommit finalizes a reply built up with reply_push.
func replyCommit() *Entry {
	return &Entry{
		Name:      "reply_commit",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			valuePtr := arg32(args, 0)
			delay := arg32(args, 1)
			resPtr := arg32(args, 2)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				value := registerValue(c, valuePtr)
				v, err := value.read(c)
				if err != nil {
					return err
				}
				mid, err := c.Ext().ReplyCommit(host.ReplyPacket{Value: v}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func replyCommitWGas() *Entry {
	return &Entry{
		Name:      "reply_commit_wgas",
		Kind:      KindFallible,
		Signature: params(I64, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			gasLimit := arg64(args, 0)
			valuePtr := arg32(args, 1)
			delay := arg32(args, 2)
			resPtr := arg32(args, 3)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				value := registerValue(c, valuePtr)
				v, err := value.read(c)
				if err != nil {
					return err
				}
				mid, err := c.Ext().ReplyCommit(host.ReplyPacket{GasLimit: &gasLimit, Value: v}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func replyPush() *Entry {
	return &Entry{
		Name:      "reply_push",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			payloadPtr := arg32(args, 0)
			payloadLen := arg32(args, 1)
			resPtr := arg32(args, 2)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				payload, err := c.Read(c.RegisterRead(payloadPtr, payloadLen))
				if err != nil {
					return err
				}
				return c.Ext().ReplyPush(payload)
			})
		},
	}
}

// replyInput replies with a slice of the incoming payload.
func replyInput() *Entry {
	return &Entry{
		Name:      "reply_input",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			at := arg32(args, 0)
			length := arg32(args, 1)
			valuePtr := arg32(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				value := registerValue(c, valuePtr)
				v, err := value.read(c)
				if err != nil {
					return err
				}
				if err := c.Ext().ReplyPushInput(at, length); err != nil {
					return err
				}
				mid, err := c.Ext().ReplyCommit(host.ReplyPacket{Value: v}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func replyInputWGas() *Entry {
	return &Entry{
		Name:      "reply_input_wgas",
		Kind:      KindFallible,
		Signature: params(I32, I32, I64, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			at := arg32(args, 0)
			length := arg32(args, 1)
			gasLimit := arg64(args, 2)
			valuePtr := arg32(args, 3)
			delay := arg32(args, 4)
			resPtr := arg32(args, 5)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				value := registerValue(c, valuePtr)
				v, err := value.read(c)
				if err != nil {
					return err
				}
				if err := c.Ext().ReplyPushInput(at, length); err != nil {
					return err
				}
				mid, err := c.Ext().ReplyCommit(host.ReplyPacket{GasLimit: &gasLimit, Value: v}, delay)
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func replyPushInput() *Entry {
	return &Entry{
		Name:      "reply_push_input",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			at := arg32(args, 0)
			length := arg32(args, 1)
			resPtr := arg32(args, 2)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				return c.Ext().ReplyPushInput(at, length)
			})
		},
	}
}

// reservationReply replies from a gas reservation. The reservation id and
// value are packed together at ridValuePtr.
func reservationReply() *Entry {
	return &Entry{
		Name:      "reservation_reply",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ridValuePtr := arg32(args, 0)
			payloadPtr := arg32(args, 1)
			payloadLen := arg32(args, 2)
			delay := arg32(args, 3)
			resPtr := arg32(args, 4)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var packed codec.HashWithValue
				packedTicket := c.RegisterReadAs(ridValuePtr, &packed)
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)

				if err := c.ReadAs(packedTicket, &packed); err != nil {
					return err
				}
				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}

				mid, err := c.Ext().ReservationReply(host.ReservationID(packed.Hash), host.ReplyPacket{
					Payload: payload,
					Value:   packed.Value,
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

func reservationReplyCommit() *Entry {
	return &Entry{
		Name:      "reservation_reply_commit",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ridValuePtr := arg32(args, 0)
			delay := arg32(args, 1)
			resPtr := arg32(args, 2)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var packed codec.HashWithValue
				if err := c.ReadAs(c.RegisterReadAs(ridValuePtr, &packed), &packed); err != nil {
					return err
				}
				mid, err := c.Ext().ReservationReplyCommit(host.ReservationID(packed.Hash), host.ReplyPacket{
					Value: packed.Value,
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

// replyTo reports which message the current reply context answers.
func replyTo() *Entry {
	return &Entry{
		Name:      "reply_to",
		Kind:      KindFallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			resPtr := arg32(args, 0)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				mid, err := c.Ext().ReplyTo()
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

// signalFrom reports which message triggered the current signal context.
func signalFrom() *Entry {
	return &Entry{
		Name:      "signal_from",
		Kind:      KindFallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			resPtr := arg32(args, 0)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				mid, err := c.Ext().SignalFrom()
				if err != nil {
					return err
				}
				out.Hash = mid.Hash()
				return nil
			})
		},
	}
}

func statusCode() *Entry {
	return &Entry{
		Name:      "status_code",
		Kind:      KindFallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			resPtr := arg32(args, 0)

			var out codec.LengthWithCode
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				code, err := c.Ext().StatusCode()
				if err != nil {
					return err
				}
				out.Code = code
				return nil
			})
		},
	}
}
