package keeper

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// Operation names a mutating pool operation.
type Operation string

const (
	OpStake    Operation = "stake"
	OpWithdraw Operation = "withdraw"
	OpClaim    Operation = "claim"
)

// AtomicCounter is a lock-free monotonic counter.
type AtomicCounter struct {
	value int64
}

// Inc increments the counter by 1.
func (c *AtomicCounter) Inc() { atomic.AddInt64(&c.value, 1) }

// Get returns the current counter value.
func (c *AtomicCounter) Get() int64 { return atomic.LoadInt64(&c.value) }

// Reset sets the counter to 0.
func (c *AtomicCounter) Reset() { atomic.StoreInt64(&c.value, 0) }

// ModuleMetrics is in-process telemetry for the stakepool module. Counters
// are process-local and never part of consensus state.
type ModuleMetrics struct {
	Stakes    AtomicCounter
	Withdraws AtomicCounter
	Claims    AtomicCounter

	// Failures by kind.
	InvalidAmount      AtomicCounter
	InsufficientStaked AtomicCounter
	InsufficientFunds  AtomicCounter
	InvalidClaim       AtomicCounter
	ClockRegression    AtomicCounter
	StorageFailure     AtomicCounter
	OtherFailure       AtomicCounter

	mu              sync.Mutex
	claimedTotal    sdkmath.Int
	settledTotal    sdkmath.Int
	lastDuration    time.Duration
	lastTotalLocked sdkmath.Int
}

// NewModuleMetrics creates zeroed metrics.
func NewModuleMetrics() *ModuleMetrics {
	return &ModuleMetrics{
		claimedTotal:    sdkmath.ZeroInt(),
		settledTotal:    sdkmath.ZeroInt(),
		lastTotalLocked: sdkmath.ZeroInt(),
	}
}

// MetricsSnapshot is a point-in-time copy of ModuleMetrics.
type MetricsSnapshot struct {
	Stakes          int64         `json:"stakes"`
	Withdraws       int64         `json:"withdraws"`
	Claims          int64         `json:"claims"`
	Failures        int64         `json:"failures"`
	ClockRegression int64         `json:"clock_regressions"`
	ClaimedTotal    sdkmath.Int   `json:"claimed_total"`
	SettledTotal    sdkmath.Int   `json:"settled_total"`
	TotalLocked     sdkmath.Int   `json:"total_locked"`
	LastDuration    time.Duration `json:"last_duration"`
}

// Snapshot copies the current values.
func (m *ModuleMetrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{ClaimedTotal: sdkmath.ZeroInt(), SettledTotal: sdkmath.ZeroInt(), TotalLocked: sdkmath.ZeroInt()}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Stakes:    m.Stakes.Get(),
		Withdraws: m.Withdraws.Get(),
		Claims:    m.Claims.Get(),
		Failures: m.InvalidAmount.Get() + m.InsufficientStaked.Get() + m.InsufficientFunds.Get() +
			m.InvalidClaim.Get() + m.ClockRegression.Get() + m.StorageFailure.Get() + m.OtherFailure.Get(),
		ClockRegression: m.ClockRegression.Get(),
		ClaimedTotal:    m.claimedTotal,
		SettledTotal:    m.settledTotal,
		TotalLocked:     m.lastTotalLocked,
		LastDuration:    m.lastDuration,
	}
}

func (m *ModuleMetrics) recordSuccess(op Operation, effects types.Effects, pool types.PoolState, d time.Duration) {
	if m == nil {
		return
	}
	switch op {
	case OpStake:
		m.Stakes.Inc()
	case OpWithdraw:
		m.Withdraws.Inc()
	case OpClaim:
		m.Claims.Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !effects.Settled.IsNil() {
		m.settledTotal = m.settledTotal.Add(effects.Settled)
	}
	if !effects.Payout.Amount.IsNil() {
		m.claimedTotal = m.claimedTotal.Add(effects.Payout.Amount)
	}
	m.lastTotalLocked = pool.TotalLocked
	m.lastDuration = d
}

func (m *ModuleMetrics) recordFailure(_ Operation, err error) {
	if m == nil {
		return
	}
	switch {
	case errors.Is(err, types.ErrInvalidAmount):
		m.InvalidAmount.Inc()
	case errors.Is(err, types.ErrInsufficientStaked):
		m.InsufficientStaked.Inc()
	case errors.Is(err, types.ErrInsufficientFunds):
		m.InsufficientFunds.Inc()
	case errors.Is(err, types.ErrInvalidClaim):
		m.InvalidClaim.Inc()
	case errors.Is(err, types.ErrClockRegression):
		m.ClockRegression.Inc()
	case errors.Is(err, types.ErrStorageFailure):
		m.StorageFailure.Inc()
	default:
		m.OtherFailure.Inc()
	}
}
