package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// GenesisState is the exported state of the pool. A nil Pool is created
// empty at the genesis block time.
type GenesisState struct {
	Params       Params        `json:"params"`
	Pool         *PoolState    `json:"pool,omitempty"`
	Participants []Participant `json:"participants"`
}

// DefaultGenesis returns an empty pool with default params.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:       DefaultParams(),
		Participants: []Participant{},
	}
}

// Validate checks params, records and the cross-record ledger invariants.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	if gs.Pool == nil {
		if len(gs.Participants) > 0 {
			return fmt.Errorf("participants present without a pool record")
		}
		return nil
	}

	pool := *gs.Pool
	if err := pool.Validate(); err != nil {
		return fmt.Errorf("invalid pool: %w", err)
	}
	if pool.Denom != gs.Params.Denom() {
		return fmt.Errorf("pool denom %s does not match reward budget denom %s", pool.Denom, gs.Params.Denom())
	}
	eps, err := EmissionRate(gs.Params, pool.TotalLocked)
	if err != nil {
		return fmt.Errorf("invalid pool: %w", err)
	}
	if !pool.EmissionRate.Equal(eps) {
		return fmt.Errorf("pool emission rate %s does not match params, expected %s", pool.EmissionRate, eps)
	}

	seen := make(map[string]struct{}, len(gs.Participants))
	sum := sdkmath.ZeroInt()
	for i, participant := range gs.Participants {
		if err := participant.Validate(); err != nil {
			return fmt.Errorf("invalid participant at index %d: %w", i, err)
		}
		canonical, err := CanonicalAddress(participant.Address)
		if err != nil {
			return fmt.Errorf("invalid participant at index %d: %w", i, err)
		}
		if participant.Address != canonical {
			return fmt.Errorf("participant %s is not in canonical form %s", participant.Address, canonical)
		}
		if _, dup := seen[canonical]; dup {
			return fmt.Errorf("duplicate participant %s", canonical)
		}
		seen[canonical] = struct{}{}
		if participant.ExchangeRateSnapshot.GT(pool.GlobalExchangeRate) {
			return fmt.Errorf("participant %s snapshot is ahead of the global exchange rate", participant.Address)
		}
		if participant.LastInteractionTime > pool.LastUpdateTime {
			return fmt.Errorf("participant %s last interaction %d is after the pool's last update %d",
				participant.Address, participant.LastInteractionTime, pool.LastUpdateTime)
		}
		sum = sum.Add(participant.StakedAmount)
	}
	if !sum.Equal(pool.TotalLocked) {
		return fmt.Errorf("total locked %s does not equal sum of staked amounts %s", pool.TotalLocked, sum)
	}
	return nil
}
