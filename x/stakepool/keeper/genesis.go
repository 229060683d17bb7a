package keeper

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// InitGenesis stores params, the pool record and every ledger entry. A
// genesis without a pool record starts an empty pool at the block time.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if gs == nil {
		return fmt.Errorf("genesis state cannot be nil")
	}
	if err := gs.Validate(); err != nil {
		return err
	}

	if gs.Pool == nil {
		return k.InitPool(ctx, gs.Params)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.setParams(ctx, gs.Params); err != nil {
		return err
	}
	if err := k.setPool(ctx, *gs.Pool); err != nil {
		return err
	}
	for _, participant := range gs.Participants {
		if err := k.setParticipant(ctx, participant); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns the full module state.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	params, err := k.GetParams(ctx)
	if err != nil {
		if errors.Is(err, types.ErrPoolNotInitialized) {
			return types.DefaultGenesis(), nil
		}
		return nil, err
	}
	pool, err := k.GetPool(ctx)
	if err != nil {
		return nil, err
	}

	participants := make([]types.Participant, 0)
	if err := k.IterateParticipants(ctx, func(p types.Participant) bool {
		participants = append(participants, p)
		return false
	}); err != nil {
		return nil, err
	}

	return &types.GenesisState{
		Params:       params,
		Pool:         &pool,
		Participants: participants,
	}, nil
}
