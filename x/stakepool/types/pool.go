package types

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ExchangeRateScale is the fixed-point denominator of the exchange rate and
// of the scaled emission rate. A rate equal to ExchangeRateScale is 1.0.
var ExchangeRateScale = sdkmath.NewIntWithDecimal(1, 18)

// PoolState is the single shared accounting record of the pool.
type PoolState struct {
	Denom       string      `json:"denom"`
	TotalLocked sdkmath.Int `json:"total_locked"`

	// EmissionRate is reward units per second for the whole pool, scaled
	// by ExchangeRateScale. Zero while the pool is empty.
	EmissionRate sdkmath.Int `json:"emission_rate"`

	// GlobalExchangeRate is cumulative reward per unit of stake since
	// inception, scaled by ExchangeRateScale. Never decreases.
	GlobalExchangeRate sdkmath.Int `json:"global_exchange_rate"`

	// LastUpdateTime is the unix second through which the rate has been advanced.
	LastUpdateTime int64 `json:"last_update_time"`
}

// NewPoolState returns an empty pool starting at the 1:1 baseline rate.
func NewPoolState(denom string, now int64) PoolState {
	return PoolState{
		Denom:              denom,
		TotalLocked:        sdkmath.ZeroInt(),
		EmissionRate:       sdkmath.ZeroInt(),
		GlobalExchangeRate: ExchangeRateScale,
		LastUpdateTime:     now,
	}
}

// Validate checks field-level consistency of the pool record.
func (p PoolState) Validate() error {
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return fmt.Errorf("pool denom: %w", err)
	}
	if p.TotalLocked.IsNil() || p.TotalLocked.IsNegative() {
		return fmt.Errorf("pool total locked must be non-negative")
	}
	if p.EmissionRate.IsNil() || p.EmissionRate.IsNegative() {
		return fmt.Errorf("pool emission rate must be non-negative")
	}
	if p.GlobalExchangeRate.IsNil() || p.GlobalExchangeRate.LT(ExchangeRateScale) {
		return fmt.Errorf("global exchange rate must be at least the 1:1 baseline")
	}
	if p.TotalLocked.IsZero() && !p.EmissionRate.IsZero() {
		return fmt.Errorf("empty pool cannot carry an emission rate")
	}
	return nil
}

// Participant is one ledger entry, addressed by canonical participant address.
type Participant struct {
	Address              string      `json:"address"`
	StakedAmount         sdkmath.Int `json:"staked_amount"`
	ExchangeRateSnapshot sdkmath.Int `json:"exchange_rate_snapshot"`
	LastInteractionTime  int64       `json:"last_interaction_time"`
	AccruedRewards       sdkmath.Int `json:"accrued_rewards"`
}

// NewParticipant returns the default entry for a first-time staker.
func NewParticipant(address string, pool PoolState, now int64) Participant {
	return Participant{
		Address:              address,
		StakedAmount:         sdkmath.ZeroInt(),
		ExchangeRateSnapshot: pool.GlobalExchangeRate,
		LastInteractionTime:  now,
		AccruedRewards:       sdkmath.ZeroInt(),
	}
}

// Validate checks field-level consistency of a ledger entry.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("participant address cannot be empty")
	}
	if p.StakedAmount.IsNil() || p.StakedAmount.IsNegative() {
		return fmt.Errorf("participant %s staked amount must be non-negative", p.Address)
	}
	if p.AccruedRewards.IsNil() || p.AccruedRewards.IsNegative() {
		return fmt.Errorf("participant %s accrued rewards must be non-negative", p.Address)
	}
	if p.ExchangeRateSnapshot.IsNil() || p.ExchangeRateSnapshot.LT(ExchangeRateScale) {
		return fmt.Errorf("participant %s snapshot is below the 1:1 baseline", p.Address)
	}
	return nil
}

// Effects are the side effects of one operation for the caller to act on.
type Effects struct {
	// Settled is the reward folded into AccruedRewards by this operation.
	Settled sdkmath.Int
	// Payout is the authorized transfer for a claim, zero otherwise.
	Payout sdk.Coin
}
