package types

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultDenom is the pool denomination used when none is configured.
	DefaultDenom = "uorai"

	// DefaultEmissionPeriodSeconds is one 30-day month.
	DefaultEmissionPeriodSeconds uint64 = 30 * 24 * 60 * 60
)

// DefaultRewardBudget is the reward paid out over one emission period.
var DefaultRewardBudget = sdkmath.NewInt(1_000_000)

// Params fixes the emission schedule for the lifetime of the pool.
type Params struct {
	// RewardBudget is emitted in full over every EmissionPeriodSeconds while
	// the pool holds stake. Its denom is the pool denom.
	RewardBudget          sdk.Coin `json:"reward_budget"`
	EmissionPeriodSeconds uint64   `json:"emission_period_seconds"`
}

// NewParams builds params from a budget and period.
func NewParams(budget sdk.Coin, period time.Duration) Params {
	return Params{
		RewardBudget:          budget,
		EmissionPeriodSeconds: uint64(period / time.Second),
	}
}

// DefaultParams returns the default emission schedule.
func DefaultParams() Params {
	return Params{
		RewardBudget:          sdk.NewCoin(DefaultDenom, DefaultRewardBudget),
		EmissionPeriodSeconds: DefaultEmissionPeriodSeconds,
	}
}

// Denom is the single denomination accepted by the pool.
func (p Params) Denom() string {
	return p.RewardBudget.Denom
}

// Validate checks the emission schedule.
func (p Params) Validate() error {
	if strings.TrimSpace(p.RewardBudget.Denom) == "" {
		return errorsmod.Wrap(ErrInvalidParams, "reward budget denom cannot be empty")
	}
	if err := sdk.ValidateDenom(p.RewardBudget.Denom); err != nil {
		return errorsmod.Wrapf(ErrInvalidParams, "reward budget denom: %s", err)
	}
	if p.RewardBudget.Amount.IsNil() || p.RewardBudget.Amount.IsNegative() {
		return errorsmod.Wrap(ErrInvalidParams, "reward budget must be non-negative")
	}
	if p.EmissionPeriodSeconds == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "emission period must be positive")
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("budget=%s period=%ds", p.RewardBudget, p.EmissionPeriodSeconds)
}

// EmissionRate returns the pool-wide emission in reward units per second,
// scaled by ExchangeRateScale: budget * scale / period, or zero when nothing
// is staked. The rate does not depend on pool size, so one staker holding
// the whole pool for a full period earns the whole budget.
func EmissionRate(params Params, totalLocked sdkmath.Int) (sdkmath.Int, error) {
	if totalLocked.IsNil() || !totalLocked.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}
	if params.EmissionPeriodSeconds == 0 {
		return sdkmath.ZeroInt(), errorsmod.Wrap(ErrInvalidParams, "emission period must be positive")
	}
	if params.RewardBudget.Amount.IsNil() || params.RewardBudget.Amount.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	eps := new(big.Int).Mul(params.RewardBudget.Amount.BigInt(), ExchangeRateScale.BigInt())
	eps.Quo(eps, new(big.Int).SetUint64(params.EmissionPeriodSeconds))
	if eps.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(ErrArithmeticOverflow, "emission rate for budget %s", params.RewardBudget)
	}
	return sdkmath.NewIntFromBigInt(eps), nil
}
