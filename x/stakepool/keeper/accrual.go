package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// EmissionRate returns the scaled pool-wide emission for totalLocked.
func EmissionRate(params types.Params, totalLocked sdkmath.Int) (sdkmath.Int, error) {
	return types.EmissionRate(params, totalLocked)
}

// Accrue advances the global exchange rate from pool.LastUpdateTime to now
// and returns the updated pool. Emission over an interval with nothing
// staked is dropped. Calling Accrue again with the same now is a no-op.
func Accrue(params types.Params, pool types.PoolState, now int64) (types.PoolState, error) {
	elapsed := now - pool.LastUpdateTime
	if elapsed < 0 {
		return pool, errorsmod.Wrapf(types.ErrClockRegression, "now %d is before last update %d", now, pool.LastUpdateTime)
	}
	if elapsed == 0 {
		return pool, nil
	}

	next := pool
	next.LastUpdateTime = now
	if !pool.TotalLocked.IsPositive() {
		next.EmissionRate = sdkmath.ZeroInt()
		return next, nil
	}

	// emission rate already carries the exchange-rate scale, so
	// increment = eps * elapsed / total_locked.
	increment, err := mulDiv(pool.EmissionRate, sdkmath.NewInt(elapsed), pool.TotalLocked)
	if err != nil {
		return pool, err
	}
	rate, err := safeAdd(pool.GlobalExchangeRate, increment)
	if err != nil {
		return pool, err
	}
	next.GlobalExchangeRate = rate

	eps, err := EmissionRate(params, next.TotalLocked)
	if err != nil {
		return pool, err
	}
	next.EmissionRate = eps
	return next, nil
}

// PendingReward is the reward a participant has earned since their last
// settlement. It never mutates its inputs and never returns a negative
// amount; the pool must already be accrued to the instant of interest.
func PendingReward(pool types.PoolState, participant types.Participant) (sdkmath.Int, error) {
	if !pool.TotalLocked.IsPositive() || !participant.StakedAmount.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}
	if !pool.GlobalExchangeRate.GT(participant.ExchangeRateSnapshot) {
		return sdkmath.ZeroInt(), nil
	}
	diff := pool.GlobalExchangeRate.Sub(participant.ExchangeRateSnapshot)
	return mulDiv(participant.StakedAmount, diff, types.ExchangeRateScale)
}
