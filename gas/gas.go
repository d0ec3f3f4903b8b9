package gas

import "errors"

// ErrGasLimitExceeded reports that the message's gas limit ran out.
var ErrGasLimitExceeded = errors.New("gas limit exceeded")

// ErrAllowanceExceeded reports that the block execution allowance ran out.
// Unlike gas exhaustion this is not the guest's fault; the scheduler is
// expected to requeue the message into a later block.
var ErrAllowanceExceeded = errors.New("gas allowance exceeded")

// Meter tracks the gas and allowance left for one guest execution. It is
// owned exclusively by a single execution and never accessed concurrently.
type Meter struct {
	gas       uint64
	allowance uint64
}

// NewMeter creates a meter with the given gas limit and block allowance.
func NewMeter(gasLimit, allowance uint64) *Meter {
	return &Meter{gas: gasLimit, allowance: allowance}
}

// Charge decrements both counters by amount. The gas counter is checked
// first: if both would run out at once the execution terminates out-of-gas,
// which keeps the outcome independent of scheduler allowance configuration.
func (m *Meter) Charge(amount uint64) error {
	if amount > m.gas {
		m.gas = 0
		return ErrGasLimitExceeded
	}
	if amount > m.allowance {
		m.allowance = 0
		return ErrAllowanceExceeded
	}
	m.gas -= amount
	m.allowance -= amount
	return nil
}

// GasLeft returns the remaining gas.
func (m *Meter) GasLeft() uint64 {
	return m.gas
}

// AllowanceLeft returns the remaining block allowance.
func (m *Meter) AllowanceLeft() uint64 {
	return m.allowance
}

// Refund returns unused gas to the meter, e.g. when a reservation is
// released. The allowance is not refunded: the time was already spent.
func (m *Meter) Refund(amount uint64) {
	m.gas += amount
}
