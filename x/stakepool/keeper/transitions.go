package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// The Apply* functions are the whole accounting state machine. Each one
// accrues the pool to now, settles the participant, checks preconditions,
// applies the balance change and re-snapshots. They work on copies: on
// error the returned pool and participant are the inputs, unchanged.

// ApplyStake locks amount for the participant.
func ApplyStake(
	params types.Params,
	pool types.PoolState,
	participant types.Participant,
	amount sdkmath.Int,
	now int64,
) (types.PoolState, types.Participant, types.Effects, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return pool, participant, noEffects(pool), errorsmod.Wrapf(types.ErrInvalidAmount, "stake amount must be positive, got %s", amount)
	}

	nextPool, nextParticipant, settled, err := accrueAndSettle(params, pool, participant, now)
	if err != nil {
		return pool, participant, noEffects(pool), err
	}

	if nextPool.TotalLocked, err = safeAdd(nextPool.TotalLocked, amount); err != nil {
		return pool, participant, noEffects(pool), err
	}
	if nextParticipant.StakedAmount, err = safeAdd(nextParticipant.StakedAmount, amount); err != nil {
		return pool, participant, noEffects(pool), err
	}

	if err := finish(params, &nextPool, &nextParticipant, now); err != nil {
		return pool, participant, noEffects(pool), err
	}
	return nextPool, nextParticipant, types.Effects{Settled: settled, Payout: sdk.Coin{Denom: pool.Denom, Amount: sdkmath.ZeroInt()}}, nil
}

// ApplyWithdraw releases amount of the participant's stake.
func ApplyWithdraw(
	params types.Params,
	pool types.PoolState,
	participant types.Participant,
	amount sdkmath.Int,
	now int64,
) (types.PoolState, types.Participant, types.Effects, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return pool, participant, noEffects(pool), errorsmod.Wrapf(types.ErrInvalidAmount, "withdraw amount must be positive, got %s", amount)
	}
	if participant.StakedAmount.LT(amount) {
		return pool, participant, noEffects(pool), errorsmod.Wrapf(types.ErrInsufficientStaked, "staked %s, requested %s", participant.StakedAmount, amount)
	}
	if pool.TotalLocked.LT(amount) {
		return pool, participant, noEffects(pool), errorsmod.Wrapf(types.ErrInsufficientFunds, "pool holds %s, requested %s", pool.TotalLocked, amount)
	}

	nextPool, nextParticipant, settled, err := accrueAndSettle(params, pool, participant, now)
	if err != nil {
		return pool, participant, noEffects(pool), err
	}

	nextPool.TotalLocked = nextPool.TotalLocked.Sub(amount)
	nextParticipant.StakedAmount = nextParticipant.StakedAmount.Sub(amount)

	if err := finish(params, &nextPool, &nextParticipant, now); err != nil {
		return pool, participant, noEffects(pool), err
	}
	return nextPool, nextParticipant, types.Effects{Settled: settled, Payout: sdk.Coin{Denom: pool.Denom, Amount: sdkmath.ZeroInt()}}, nil
}

// ApplyClaim settles the participant and authorizes a payout of everything
// accrued. The transfer itself is up to the caller.
func ApplyClaim(
	params types.Params,
	pool types.PoolState,
	participant types.Participant,
	now int64,
) (types.PoolState, types.Participant, types.Effects, error) {
	nextPool, nextParticipant, settled, err := accrueAndSettle(params, pool, participant, now)
	if err != nil {
		return pool, participant, noEffects(pool), err
	}
	if !nextParticipant.AccruedRewards.IsPositive() {
		return pool, participant, noEffects(pool), errorsmod.Wrapf(types.ErrInvalidClaim, "participant %s has no rewards", participant.Address)
	}

	claimed := nextParticipant.AccruedRewards
	nextParticipant.AccruedRewards = sdkmath.ZeroInt()
	if err := finish(params, &nextPool, &nextParticipant, now); err != nil {
		return pool, participant, noEffects(pool), err
	}
	return nextPool, nextParticipant, types.Effects{Settled: settled, Payout: sdk.Coin{Denom: pool.Denom, Amount: claimed}}, nil
}

// accrueAndSettle brings the pool to now and folds the participant's
// pending reward into AccruedRewards.
func accrueAndSettle(
	params types.Params,
	pool types.PoolState,
	participant types.Participant,
	now int64,
) (types.PoolState, types.Participant, sdkmath.Int, error) {
	nextPool, err := Accrue(params, pool, now)
	if err != nil {
		return pool, participant, sdkmath.ZeroInt(), err
	}
	pending, err := PendingReward(nextPool, participant)
	if err != nil {
		return pool, participant, sdkmath.ZeroInt(), err
	}
	nextParticipant := participant
	if nextParticipant.AccruedRewards, err = safeAdd(participant.AccruedRewards, pending); err != nil {
		return pool, participant, sdkmath.ZeroInt(), err
	}
	return nextPool, nextParticipant, pending, nil
}

// finish recomputes the emission rate for the new pool size and
// re-snapshots the participant at the current global rate.
func finish(params types.Params, pool *types.PoolState, participant *types.Participant, now int64) error {
	eps, err := EmissionRate(params, pool.TotalLocked)
	if err != nil {
		return err
	}
	pool.EmissionRate = eps
	participant.ExchangeRateSnapshot = pool.GlobalExchangeRate
	participant.LastInteractionTime = now
	return nil
}

func noEffects(pool types.PoolState) types.Effects {
	return types.Effects{Settled: sdkmath.ZeroInt(), Payout: sdk.Coin{Denom: pool.Denom, Amount: sdkmath.ZeroInt()}}
}
