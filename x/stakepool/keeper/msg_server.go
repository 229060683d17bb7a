package keeper

import (
	"context"
	"errors"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// OperationResult is returned by every mutating operation.
type OperationResult struct {
	Pool        types.PoolState   `json:"pool"`
	Participant types.Participant `json:"participant"`
	Settled     sdkmath.Int       `json:"settled"`
	Payout      sdk.Coin          `json:"payout"`
}

type transition func(params types.Params, pool types.PoolState, participant types.Participant, now int64) (types.PoolState, types.Participant, types.Effects, error)

// Stake locks msg.Amount for msg.Participant at the block time.
func (k Keeper) Stake(ctx context.Context, msg types.MsgStake) (*OperationResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, k.recordFailure(OpStake, err)
	}
	return k.execute(ctx, OpStake, msg.Participant, msg.Amount, func(params types.Params, pool types.PoolState, participant types.Participant, now int64) (types.PoolState, types.Participant, types.Effects, error) {
		return ApplyStake(params, pool, participant, msg.Amount.Amount, now)
	})
}

// Withdraw releases msg.Amount of msg.Participant's stake at the block time.
func (k Keeper) Withdraw(ctx context.Context, msg types.MsgWithdraw) (*OperationResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, k.recordFailure(OpWithdraw, err)
	}
	return k.execute(ctx, OpWithdraw, msg.Participant, msg.Amount, func(params types.Params, pool types.PoolState, participant types.Participant, now int64) (types.PoolState, types.Participant, types.Effects, error) {
		return ApplyWithdraw(params, pool, participant, msg.Amount.Amount, now)
	})
}

// Claim pays out msg.Participant's settled rewards through the bank keeper.
func (k Keeper) Claim(ctx context.Context, msg types.MsgClaim) (*OperationResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, k.recordFailure(OpClaim, err)
	}
	return k.execute(ctx, OpClaim, msg.Participant, sdk.Coin{}, ApplyClaim)
}

// execute runs one transition against a consistent pool/participant pair
// and commits every write together or none at all. amount is the zero
// coin for claims.
func (k Keeper) execute(
	ctx context.Context,
	op Operation,
	rawAddress string,
	amount sdk.Coin,
	apply transition,
) (*OperationResult, error) {
	start := time.Now()
	sdkCtx, now, err := contextNow(ctx)
	if err != nil {
		return nil, k.recordFailure(op, err)
	}
	address, err := k.addresses.Canonical(rawAddress)
	if err != nil {
		return nil, k.recordFailure(op, err)
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.breaker != nil {
		if halted, reason := k.breaker.IsHalted(ctx); halted {
			return nil, k.recordFailure(op, errorsmod.Wrap(types.ErrPoolHalted, reason))
		}
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, k.recordFailure(op, err)
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, k.recordFailure(op, err)
	}
	if amount.Denom != "" && amount.Denom != pool.Denom {
		return nil, k.recordFailure(op, errorsmod.Wrapf(types.ErrInvalidDenom, "pool accepts %s, got %s", pool.Denom, amount.Denom))
	}

	participant, found, err := k.GetParticipant(ctx, address)
	if err != nil {
		return nil, k.recordFailure(op, err)
	}
	if !found {
		// Unknown participants start from the default entry; withdraw and
		// claim then fail their own preconditions and nothing is stored.
		participant = types.NewParticipant(address, pool, now)
	}

	nextPool, nextParticipant, effects, err := apply(params, pool, participant, now)
	if err != nil {
		if errors.Is(err, types.ErrClockRegression) {
			k.Logger(ctx).Error("rejected operation with regressing block time",
				"operation", string(op),
				"participant", address,
				"error", err,
			)
		}
		return nil, k.recordFailure(op, err)
	}

	// All writes go to a branch of the store that is only flushed once
	// the payout hand-off has succeeded too.
	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.setPool(cacheCtx, nextPool); err != nil {
		return nil, k.recordFailure(op, err)
	}
	if err := k.setParticipant(cacheCtx, nextParticipant); err != nil {
		return nil, k.recordFailure(op, err)
	}
	if effects.Payout.IsPositive() {
		if err := k.sendPayout(cacheCtx, address, effects.Payout); err != nil {
			return nil, k.recordFailure(op, err)
		}
	}
	write()

	k.emitOperationEvent(sdkCtx, op, amount, nextPool, nextParticipant, effects)
	k.metrics.recordSuccess(op, effects, nextPool, time.Since(start))

	k.Logger(ctx).Debug("stakepool operation applied",
		"operation", string(op),
		"participant", address,
		"settled", effects.Settled.String(),
		"payout", effects.Payout.String(),
		"total_locked", nextPool.TotalLocked.String(),
		"global_exchange_rate", nextPool.GlobalExchangeRate.String(),
	)

	return &OperationResult{
		Pool:        nextPool,
		Participant: nextParticipant,
		Settled:     effects.Settled,
		Payout:      effects.Payout,
	}, nil
}

func (k Keeper) sendPayout(ctx context.Context, address string, payout sdk.Coin) error {
	if k.bankKeeper == nil {
		return errorsmod.Wrap(types.ErrStorageFailure, "no bank keeper configured for reward payouts")
	}
	recipient, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidAddress, err.Error())
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, sdk.NewCoins(payout)); err != nil {
		return errorsmod.Wrapf(err, "pay out %s to %s", payout, address)
	}
	return nil
}

func (k Keeper) emitOperationEvent(
	ctx sdk.Context,
	op Operation,
	amount sdk.Coin,
	pool types.PoolState,
	participant types.Participant,
	effects types.Effects,
) {
	eventType := types.EventTypeStake
	switch op {
	case OpWithdraw:
		eventType = types.EventTypeWithdraw
	case OpClaim:
		eventType = types.EventTypeClaim
		amount = effects.Payout
	}
	emitEventIfPossible(ctx, sdk.NewEvent(
		eventType,
		sdk.NewAttribute(types.AttributeKeyParticipant, participant.Address),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeySettled, effects.Settled.String()),
		sdk.NewAttribute(types.AttributeKeyTotalLocked, pool.TotalLocked.String()),
		sdk.NewAttribute(types.AttributeKeyExchangeRate, pool.GlobalExchangeRate.String()),
	))
}

func (k Keeper) recordFailure(op Operation, err error) error {
	k.metrics.recordFailure(op, err)
	return err
}
