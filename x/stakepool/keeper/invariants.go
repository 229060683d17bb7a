package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// RegisterInvariants registers all module invariants with the invariant registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "total-locked-sum", TotalLockedSumInvariant(k))
	ir.RegisterRoute(types.ModuleName, "non-negative-balances", NonNegativeBalancesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "snapshot-not-ahead", SnapshotNotAheadInvariant(k))
}

// AllInvariants runs all invariants of the stakepool module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		invariants := []sdk.Invariant{
			TotalLockedSumInvariant(k),
			NonNegativeBalancesInvariant(k),
			SnapshotNotAheadInvariant(k),
		}

		for _, inv := range invariants {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// TotalLockedSumInvariant checks that the pool's total locked equals the
// sum of every participant's staked amount.
func TotalLockedSumInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return "", false
		}

		sum := sdkmath.ZeroInt()
		count := 0
		err = k.IterateParticipants(ctx, func(p types.Participant) bool {
			sum = sum.Add(p.StakedAmount)
			count++
			return false
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "total-locked-sum",
				fmt.Sprintf("failed to iterate participants: %v\n", err)), true
		}

		if !sum.Equal(pool.TotalLocked) {
			return sdk.FormatInvariant(types.ModuleName, "total-locked-sum",
				fmt.Sprintf("INVARIANT BROKEN: pool total locked %s != sum of %d participants %s\n",
					pool.TotalLocked, count, sum)), true
		}
		return "", false
	}
}

// NonNegativeBalancesInvariant checks that no pool or ledger amount is negative.
func NonNegativeBalancesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		if pool, err := k.GetPool(ctx); err == nil {
			if err := pool.Validate(); err != nil {
				msg += fmt.Sprintf("INVARIANT BROKEN: pool: %v\n", err)
				broken = true
			}
		}

		_ = k.IterateParticipants(ctx, func(p types.Participant) bool {
			if err := p.Validate(); err != nil {
				msg += fmt.Sprintf("INVARIANT BROKEN: %v\n", err)
				broken = true
			}
			return false
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "non-negative-balances", msg), true
		}
		return "", false
	}
}

// SnapshotNotAheadInvariant checks that no participant snapshot exceeds the
// global exchange rate, which would make their pending reward negative.
func SnapshotNotAheadInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pool, err := k.GetPool(ctx)
		if err != nil {
			return "", false
		}

		var msg string
		broken := false
		_ = k.IterateParticipants(ctx, func(p types.Participant) bool {
			if !p.ExchangeRateSnapshot.IsNil() && p.ExchangeRateSnapshot.GT(pool.GlobalExchangeRate) {
				msg += fmt.Sprintf("INVARIANT BROKEN: participant %s snapshot %s > global rate %s\n",
					p.Address, p.ExchangeRateSnapshot, pool.GlobalExchangeRate)
				broken = true
			}
			return false
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "snapshot-not-ahead", msg), true
		}
		return "", false
	}
}
