package gas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeterCharge(t *testing.T) {
	m := NewMeter(100, 200)
	require.NoError(t, m.Charge(60))
	require.Equal(t, uint64(40), m.GasLeft())
	require.Equal(t, uint64(140), m.AllowanceLeft())
}

func TestMeterGasExhaustion(t *testing.T) {
	m := NewMeter(50, 1000)
	err := m.Charge(51)
	require.ErrorIs(t, err, ErrGasLimitExceeded)
	// The exhausted counter reads zero afterwards.
	require.Zero(t, m.GasLeft())
}

func TestMeterAllowanceExhaustion(t *testing.T) {
	m := NewMeter(1000, 50)
	err := m.Charge(51)
	require.ErrorIs(t, err, ErrAllowanceExceeded)
	require.Equal(t, uint64(1000), m.GasLeft())
	require.Zero(t, m.AllowanceLeft())
}

// Gas is checked before allowance, so running out of both reports gas.
func TestMeterGasCheckedFirst(t *testing.T) {
	m := NewMeter(10, 10)
	require.ErrorIs(t, m.Charge(11), ErrGasLimitExceeded)
}

func TestMeterRefund(t *testing.T) {
	m := NewMeter(100, 100)
	require.NoError(t, m.Charge(80))
	m.Refund(30)
	require.Equal(t, uint64(50), m.GasLeft())
}

func TestScheduleCostOf(t *testing.T) {
	s := &Schedule{
		SyscallBase: 7,
		Syscall:     map[string]uint64{"send": 300},
	}
	require.Equal(t, uint64(300), s.CostOf("send"))
	require.Equal(t, uint64(7), s.CostOf("reply"))
}

func TestScheduleByteCosts(t *testing.T) {
	s := &Schedule{MemoryReadByte: 2, MemoryWriteByte: 5}
	require.Equal(t, uint64(20), s.ReadCost(10))
	require.Equal(t, uint64(50), s.WriteCost(10))
}
