package syscalls

import (
	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/codec"
	"github.com/wippyai/syscall-bridge/host"
)

// createProgram spawns a new program from uploaded code. Code id and value
// are packed at cidValuePtr; salt and init payload are separate regions.
// The result record carries the init message id and the new program id.
func createProgram() *Entry {
	return &Entry{
		Name:      "create_program",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			cidValuePtr := arg32(args, 0)
			saltPtr := arg32(args, 1)
			saltLen := arg32(args, 2)
			payloadPtr := arg32(args, 3)
			payloadLen := arg32(args, 4)
			delay := arg32(args, 5)
			resPtr := arg32(args, 6)

			var out codec.LengthWithTwoHashes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var packed codec.HashWithValue
				packedTicket := c.RegisterReadAs(cidValuePtr, &packed)
				saltTicket := c.RegisterRead(saltPtr, saltLen)
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)

				if err := c.ReadAs(packedTicket, &packed); err != nil {
					return err
				}
				salt, err := c.Read(saltTicket)
				if err != nil {
					return err
				}
				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}

				mid, pid, err := c.Ext().CreateProgram(host.InitPacket{
					CodeID:  host.CodeID(packed.Hash),
					Salt:    salt,
					Payload: payload,
					Value:   packed.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash1 = mid.Hash()
				out.Hash2 = pid.Hash()
				return nil
			})
		},
	}
}

func createProgramWGas() *Entry {
	return &Entry{
		Name:      "create_program_wgas",
		Kind:      KindFallible,
		Signature: params(I32, I32, I32, I32, I32, I64, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			cidValuePtr := arg32(args, 0)
			saltPtr := arg32(args, 1)
			saltLen := arg32(args, 2)
			payloadPtr := arg32(args, 3)
			payloadLen := arg32(args, 4)
			gasLimit := arg64(args, 5)
			delay := arg32(args, 6)
			resPtr := arg32(args, 7)

			var out codec.LengthWithTwoHashes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var packed codec.HashWithValue
				packedTicket := c.RegisterReadAs(cidValuePtr, &packed)
				saltTicket := c.RegisterRead(saltPtr, saltLen)
				payloadTicket := c.RegisterRead(payloadPtr, payloadLen)

				if err := c.ReadAs(packedTicket, &packed); err != nil {
					return err
				}
				salt, err := c.Read(saltTicket)
				if err != nil {
					return err
				}
				payload, err := c.Read(payloadTicket)
				if err != nil {
					return err
				}

				mid, pid, err := c.Ext().CreateProgram(host.InitPacket{
					CodeID:   host.CodeID(packed.Hash),
					Salt:     salt,
					Payload:  payload,
					GasLimit: &gasLimit,
					Value:    packed.Value,
				}, delay)
				if err != nil {
					return err
				}
				out.Hash1 = mid.Hash()
				out.Hash2 = pid.Hash()
				return nil
			})
		},
	}
}

// reserveGas sets gas aside for later use and returns the reservation id.
func reserveGas() *Entry {
	return &Entry{
		Name:      "reserve_gas",
		Kind:      KindFallible,
		Signature: params(I64, I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			amount := arg64(args, 0)
			duration := arg32(args, 1)
			resPtr := arg32(args, 2)

			var out codec.LengthWithHash
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				rid, err := c.Ext().ReserveGas(amount, duration)
				if err != nil {
					return err
				}
				out.Hash = rid.Hash()
				return nil
			})
		},
	}
}

// unreserveGas returns a reservation's gas to the meter and reports the
// unreserved amount.
func unreserveGas() *Entry {
	return &Entry{
		Name:      "unreserve_gas",
		Kind:      KindFallible,
		Signature: params(I32, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			ridPtr := arg32(args, 0)
			resPtr := arg32(args, 1)

			var out codec.LengthWithGas
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				var rid codec.Hash
				if err := c.ReadAs(c.RegisterReadAs(ridPtr, &rid), &rid); err != nil {
					return err
				}
				amount, err := c.Ext().UnreserveGas(host.ReservationID(rid))
				if err != nil {
					return err
				}
				out.Gas = amount
				return nil
			})
		},
	}
}

func systemReserveGas() *Entry {
	return &Entry{
		Name:      "system_reserve_gas",
		Kind:      KindFallible,
		Signature: params(I64, I32),
		Handler: func(c *bridge.CallContext, args []uint64) (uint64, error) {
			amount := arg64(args, 0)
			resPtr := arg32(args, 1)

			var out codec.LengthBytes
			return 0, c.RunFallible(resPtr, &out, func(c *bridge.CallContext) error {
				return c.Ext().SystemReserveGas(amount)
			})
		},
	}
}
