package syscalls

import (
	"math"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
)

// read copies a slice of the incoming payload into guest memory. The buffer
// write is staged, so a failing slice leaves the guest region untouched.
func read() *Entry {
	return &Entry{
		Name:      "read",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			at := arg32(args, 0)
			length := arg32(args, 1)
			bufferPtr := arg32(args, 2)
			resPtr := arg32(args, 3)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				bufferTicket := c.RegisterWrite(bufferPtr, length)
				data, err := c.Ext().PayloadSlice(at, length)
				if err != nil {
					return err
				}
				return c.StageWrite(bufferTicket, data)
			})
		},
	}
}

// size writes the incoming payload length to sizePtr.
func size() *Entry {
	return &Entry{
		Name:      "size",
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			sizePtr := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				t := c.RegisterWrite(sizePtr, 4)
				n, err := c.Ext().Size()
				if err != nil {
					return err
				}
				return stageU32(c, t, n)
			})
		},
	}
}

// alloc grows linear memory by the requested page count and returns the
// first new page index, or math.MaxUint32 on failure.
func alloc() *Entry {
	return &Entry{
		Name:      "alloc",
		Kind:      KindSystem,
		Signature: paramsRet(I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			pages := arg32(args, 0)
			v, err := c.RunSystem(math.MaxUint32, func(c *bridge.CallContext) (uint32, error) {
				return c.Ext().Alloc(pages, c.State().Memory())
			})
			return uint64(v), err
		},
	}
}

// free releases one page. Returns 0 on success, 1 on failure.
func free() *Entry {
	return &Entry{
		Name:      "free",
		Kind:      KindSystem,
		Signature: paramsRet(I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			page := arg32(args, 0)
			v, err := c.RunSystem(1, func(c *bridge.CallContext) (uint32, error) {
				return 0, c.Ext().Free(page)
			})
			return uint64(v), err
		},
	}
}

// freeRange releases the inclusive page range [start, end]. Returns 0 on
// success, 1 on failure.
func freeRange() *Entry {
	return &Entry{
		Name:      "free_range",
		Kind:      KindSystem,
		Signature: paramsRet(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			start := arg32(args, 0)
			end := arg32(args, 1)
			v, err := c.RunSystem(1, func(c *bridge.CallContext) (uint32, error) {
				return 0, c.Ext().FreeRange(start, end)
			})
			return uint64(v), err
		},
	}
}
