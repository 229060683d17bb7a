package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// PoolSummary is the read-only view of the pool.
type PoolSummary struct {
	Params types.Params    `json:"params"`
	Pool   types.PoolState `json:"pool"`
	// ProjectedExchangeRate is the global rate if the pool were accrued to
	// the query time. Nothing is written.
	ProjectedExchangeRate sdkmath.Int `json:"projected_exchange_rate"`
	AsOf                  int64       `json:"as_of"`
}

// ParticipantSummary is the read-only view of one ledger entry.
type ParticipantSummary struct {
	Address              string      `json:"address"`
	StakedAmount         sdkmath.Int `json:"staked_amount"`
	ExchangeRateSnapshot sdkmath.Int `json:"exchange_rate_snapshot"`
	LastInteractionTime  int64       `json:"last_interaction_time"`
	AccruedRewards       sdkmath.Int `json:"accrued_rewards"`
	PendingRewards       sdkmath.Int `json:"pending_rewards"`
	// Claimable is AccruedRewards plus PendingRewards as of AsOf.
	Claimable sdkmath.Int `json:"claimable"`
	AsOf      int64       `json:"as_of"`
}

// QueryPool returns the stored pool together with its projection to the
// block time.
func (k Keeper) QueryPool(ctx context.Context) (*PoolSummary, error) {
	_, now, err := contextNow(ctx)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, err
	}
	projected, err := projectPool(params, pool, now)
	if err != nil {
		return nil, err
	}
	return &PoolSummary{
		Params:                params,
		Pool:                  pool,
		ProjectedExchangeRate: projected.GlobalExchangeRate,
		AsOf:                  projected.LastUpdateTime,
	}, nil
}

// QueryParticipant returns a participant's balances and the reward they
// could claim at the block time.
func (k Keeper) QueryParticipant(ctx context.Context, rawAddress string) (*ParticipantSummary, error) {
	_, now, err := contextNow(ctx)
	if err != nil {
		return nil, err
	}
	address, err := k.addresses.Canonical(rawAddress)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, err
	}
	participant, found, err := k.GetParticipant(ctx, address)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorsmod.Wrapf(types.ErrParticipantNotFound, "%s", address)
	}

	projected, err := projectPool(params, pool, now)
	if err != nil {
		return nil, err
	}
	pending, err := PendingReward(projected, participant)
	if err != nil {
		return nil, err
	}
	return &ParticipantSummary{
		Address:              participant.Address,
		StakedAmount:         participant.StakedAmount,
		ExchangeRateSnapshot: participant.ExchangeRateSnapshot,
		LastInteractionTime:  participant.LastInteractionTime,
		AccruedRewards:       participant.AccruedRewards,
		PendingRewards:       pending,
		Claimable:            participant.AccruedRewards.Add(pending),
		AsOf:                 projected.LastUpdateTime,
	}, nil
}

// projectPool accrues a copy of the pool for reads. A query time behind the
// last update (e.g. a historical query height) reads the stored rate as is.
func projectPool(params types.Params, pool types.PoolState, now int64) (types.PoolState, error) {
	if now < pool.LastUpdateTime {
		return pool, nil
	}
	return Accrue(params, pool, now)
}
