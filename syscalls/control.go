package syscalls

import (
	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
)

// exit stops the program permanently and transfers its value to the
// inheritor read from guest memory.
func exit() *Entry {
	return &Entry{
		Name:      "exit",
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			inheritorPtr := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				var inheritor codec.Hash
				if err := c.ReadAs(c.RegisterReadAs(inheritorPtr, &inheritor), &inheritor); err != nil {
					return err
				}
				id := host.ActorID(inheritor)
				if err := c.Ext().Exit(id); err != nil {
					return err
				}
				return bridge.Terminate(bridge.ExitTermination(id))
			})
		},
	}
}

func leave() *Entry {
	return &Entry{
		Name:      "leave",
		Kind:      KindInfallible,
		Signature: params(),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			return 0, c.Run(func(c *bridge.CallContext) error {
				if err := c.Ext().Leave(); err != nil {
					return err
				}
				return bridge.Terminate(bridge.LeaveTermination())
			})
		},
	}
}

func wait() *Entry {
	return &Entry{
		Name:      "wait",
		Kind:      KindInfallible,
		Signature: params(),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			return 0, c.Run(func(c *bridge.CallContext) error {
				if err := c.Ext().Wait(); err != nil {
					return err
				}
				return bridge.Terminate(bridge.WaitTermination(nil, bridge.WaitIndefinite))
			})
		},
	}
}

func waitFor() *Entry {
	return &Entry{
		Name:      "wait_for",
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			duration := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				if err := c.Ext().WaitFor(duration); err != nil {
					return err
				}
				return bridge.Terminate(bridge.WaitTermination(&duration, bridge.WaitForExact))
			})
		},
	}
}

// waitUpTo folds the host's "full duration scheduled" answer into the wait
// kind carried by the termination reason.
func waitUpTo() *Entry {
	return &Entry{
		Name:      "wait_up_to",
		Kind:      KindInfallible,
		Signature: params(I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			duration := arg32(args, 0)
			return 0, c.Run(func(c *bridge.CallContext) error {
				full, err := c.Ext().WaitUpTo(duration)
				if err != nil {
					return err
				}
				kind := bridge.WaitUpToEarly
				if full {
					kind = bridge.WaitUpToFull
				}
				return bridge.Terminate(bridge.WaitTermination(&duration, kind))
			})
		},
	}
}

func wake() *Entry {
	return &Entry{
		Name:      "wake",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			midPtr := arg32(args, 0)
			delay := arg32(args, 1)
			resPtr := arg32(args, 2)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var mid codec.Hash
				if err := c.ReadAs(c.RegisterReadAs(midPtr, &mid), &mid); err != nil {
					return err
				}
				return c.Ext().Wake(host.MessageID(mid), delay)
			})
		},
	}
}

// outOfGas and outOfAllowance are host-triggered entries: engines inject
// calls to them when instrumented gas or allowance counters run out. Guests
// never call them directly.
func outOfGas() *Entry {
	return &Entry{
		Name:      "out_of_gas",
		Kind:      KindInfallible,
		Signature: params(),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			return 0, c.Fatal(gas.ErrGasLimitExceeded)
		},
	}
}

func outOfAllowance() *Entry {
	return &Entry{
		Name:      "out_of_allowance",
		Kind:      KindInfallible,
		Signature: params(),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			return 0, c.Fatal(gas.ErrAllowanceExceeded)
		},
	}
}
