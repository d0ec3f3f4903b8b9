package syscalls

import (
	"github.com/holiman/uint256"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/host"
)

// The context query entries share three shapes: a 4-byte scalar, an 8-byte
// scalar, a 32-byte identity or a 16-byte value. Each writes its output to
// the single pointer argument.

func infallibleU32(name string, get func(host.Externalities) (uint32, error)) *Entry {
	return &Entry{
		Name:      name,
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ptr := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				t := c.RegisterWrite(ptr, 4)
				v, err := get(c.Ext())
				if err != nil {
					return err
				}
				return stageU32(c, t, v)
			})
		},
	}
}

func infallibleU64(name string, get func(host.Externalities) (uint64, error)) *Entry {
	return &Entry{
		Name:      name,
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ptr := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				t := c.RegisterWrite(ptr, 8)
				v, err := get(c.Ext())
				if err != nil {
					return err
				}
				return stageU64(c, t, v)
			})
		},
	}
}

func infallibleHash(name string, get func(host.Externalities) (codec.Hash, error)) *Entry {
	return &Entry{
		Name:      name,
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ptr := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				h := codec.Hash{}
				t := c.RegisterWriteAs(ptr, &h)
				v, err := get(c.Ext())
				if err != nil {
					return err
				}
				h = v
				return c.StageWriteAs(t, &h)
			})
		},
	}
}

func infallibleValue(name string, get func(host.Externalities) (uint256.Int, error)) *Entry {
	return &Entry{
		Name:      name,
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ptr := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				t := c.RegisterWrite(ptr, codec.ValueLen)
				v, err := get(c.Ext())
				if err != nil {
					return err
				}
				buf := make([]byte, codec.ValueLen)
				if err := codec.PutValue128(buf, &v); err != nil {
					return err
				}
				return c.StageWrite(t, buf)
			})
		},
	}
}

func blockHeight() *Entry {
	return infallibleU32("block_height", func(ext host.Externalities) (uint32, error) {
		return ext.BlockHeight()
	})
}

func blockTimestamp() *Entry {
	return infallibleU64("block_timestamp", func(ext host.Externalities) (uint64, error) {
		return ext.BlockTimestamp()
	})
}

func origin() *Entry {
	return infallibleHash("origin", func(ext host.Externalities) (codec.Hash, error) {
		id, err := ext.Origin()
		return id.Hash(), err
	})
}

func source() *Entry {
	return infallibleHash("source", func(ext host.Externalities) (codec.Hash, error) {
		id, err := ext.Source()
		return id.Hash(), err
	})
}

func value() *Entry {
	return infallibleValue("value", func(ext host.Externalities) (uint256.Int, error) {
		return ext.Value()
	})
}

func valueAvailable() *Entry {
	return infallibleValue("value_available", func(ext host.Externalities) (uint256.Int, error) {
		return ext.ValueAvailable()
	})
}

func messageID() *Entry {
	return infallibleHash("message_id", func(ext host.Externalities) (codec.Hash, error) {
		id, err := ext.MessageID()
		return id.Hash(), err
	})
}

func programID() *Entry {
	return infallibleHash("program_id", func(ext host.Externalities) (codec.Hash, error) {
		id, err := ext.ProgramID()
		return id.Hash(), err
	})
}

func gasAvailable() *Entry {
	return infallibleU64("gas_available", func(ext host.Externalities) (uint64, error) {
		return ext.GasAvailable(), nil
	})
}

// random derives a hash from the epoch randomness and a guest-provided
// subject, and reports the block at which the randomness is observable.
func random() *Entry {
	return &Entry{
		Name:      "random",
		Kind:      KindInfallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			subjectPtr := arg32(args, 0)
			subjectLen := arg32(args, 1)
			outPtr := arg32(args, 2)

			return 0, c.Run(func(c *bridge.CallContext) error {
				subjectTicket := c.RegisterRead(subjectPtr, subjectLen)
				var out codec.BlockNumberWithHash
				outTicket := c.RegisterWriteAs(outPtr, &out)

				subject, err := c.Read(subjectTicket)
				if err != nil {
					return err
				}
				bn, hash, err := c.Ext().Random(subject)
				if err != nil {
					return err
				}
				out.BlockNumber = bn
				out.Hash = hash
				return c.StageWriteAs(outTicket, &out)
			})
		},
	}
}
