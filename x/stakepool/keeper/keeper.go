package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// BankKeeper is the value-transfer collaborator that receives authorized
// claim payouts.
type BankKeeper interface {
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// CircuitBreaker freezes mutating operations, e.g. after a broken invariant.
type CircuitBreaker interface {
	IsHalted(ctx context.Context) (bool, string)
}

// Keeper owns the pool record and the participant ledger.
type Keeper struct {
	cdc          codec.Codec
	storeService store.KVStoreService
	authority    string

	bankKeeper BankKeeper
	breaker    CircuitBreaker
	addresses  *types.AddressValidator
	metrics    *ModuleMetrics

	// mu serializes every read-modify-write of the pool record.
	mu *sync.Mutex

	Params       collections.Item[string]
	Pool         collections.Item[string]
	Participants collections.Map[string, string]
}

// NewKeeper creates a new staking pool keeper.
func NewKeeper(
	cdc codec.Codec,
	storeService store.KVStoreService,
	bankKeeper BankKeeper,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	addresses, err := types.NewAddressValidator(types.DefaultAddressCacheSize)
	if err != nil {
		panic(fmt.Sprintf("stakepool: address cache: %v", err))
	}

	return Keeper{
		cdc:          cdc,
		storeService: storeService,
		authority:    authority,
		bankKeeper:   bankKeeper,
		addresses:    addresses,
		metrics:      NewModuleMetrics(),
		mu:           &sync.Mutex{},
		Params: collections.NewItem(
			sb,
			collections.NewPrefix(types.ParamsKey),
			"params",
			collections.StringValue,
		),
		Pool: collections.NewItem(
			sb,
			collections.NewPrefix(types.PoolStateKey),
			"pool",
			collections.StringValue,
		),
		Participants: collections.NewMap(
			sb,
			collections.NewPrefix(types.ParticipantKeyPrefix),
			"participants",
			collections.StringKey,
			collections.StringValue,
		),
	}
}

// SetCircuitBreaker wires the halt switch consulted before every stake,
// withdraw and claim.
func (k *Keeper) SetCircuitBreaker(breaker CircuitBreaker) {
	k.breaker = breaker
}

// GetAuthority returns the keeper authority address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Metrics returns the in-process operation counters.
func (k Keeper) Metrics() *ModuleMetrics {
	return k.metrics
}

// Logger returns a module-scoped logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	if sdkCtx, ok := unwrapSDKContext(ctx); ok {
		return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
	}
	return log.NewNopLogger()
}

// InitPool stores params and an empty pool starting at the block time.
func (k Keeper) InitPool(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	_, now, err := contextNow(ctx)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.setParams(ctx, params); err != nil {
		return err
	}
	pool := types.NewPoolState(params.Denom(), now)
	if err := k.setPool(ctx, pool); err != nil {
		return err
	}
	k.Logger(ctx).Info("staking pool initialized",
		"denom", pool.Denom,
		"reward_budget", params.RewardBudget.String(),
		"emission_period_seconds", params.EmissionPeriodSeconds,
	)
	return nil
}

// GetParams loads the emission schedule.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	raw, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Params{}, types.ErrPoolNotInitialized
		}
		return types.Params{}, errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	var params types.Params
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return types.Params{}, errorsmod.Wrapf(types.ErrStorageFailure, "decode params: %s", err)
	}
	return params, nil
}

// GetPool loads the pool record as last written.
func (k Keeper) GetPool(ctx context.Context) (types.PoolState, error) {
	raw, err := k.Pool.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.PoolState{}, types.ErrPoolNotInitialized
		}
		return types.PoolState{}, errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	return decodePool(raw)
}

// GetParticipant loads a ledger entry by canonical address. The boolean
// reports whether the entry exists.
func (k Keeper) GetParticipant(ctx context.Context, address string) (types.Participant, bool, error) {
	raw, err := k.Participants.Get(ctx, address)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Participant{}, false, nil
		}
		return types.Participant{}, false, errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	participant, err := decodeParticipant(raw)
	if err != nil {
		return types.Participant{}, false, err
	}
	return participant, true, nil
}

// IterateParticipants walks every ledger entry in key order until cb returns true.
func (k Keeper) IterateParticipants(ctx context.Context, cb func(types.Participant) (stop bool)) error {
	err := k.Participants.Walk(ctx, nil, func(_ string, raw string) (bool, error) {
		participant, err := decodeParticipant(raw)
		if err != nil {
			return true, err
		}
		return cb(participant), nil
	})
	if err != nil {
		return errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	return nil
}

func (k Keeper) setParams(ctx context.Context, params types.Params) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	if err := k.Params.Set(ctx, string(raw)); err != nil {
		return errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	return nil
}

func (k Keeper) setPool(ctx context.Context, pool types.PoolState) error {
	raw, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	if err := k.Pool.Set(ctx, string(raw)); err != nil {
		return errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	return nil
}

func (k Keeper) setParticipant(ctx context.Context, participant types.Participant) error {
	raw, err := json.Marshal(participant)
	if err != nil {
		return err
	}
	if err := k.Participants.Set(ctx, participant.Address, string(raw)); err != nil {
		return errorsmod.Wrap(types.ErrStorageFailure, err.Error())
	}
	return nil
}

func decodePool(raw string) (types.PoolState, error) {
	var pool types.PoolState
	if err := json.Unmarshal([]byte(raw), &pool); err != nil {
		return types.PoolState{}, errorsmod.Wrapf(types.ErrStorageFailure, "decode pool: %s", err)
	}
	return pool, nil
}

func decodeParticipant(raw string) (types.Participant, error) {
	var participant types.Participant
	if err := json.Unmarshal([]byte(raw), &participant); err != nil {
		return types.Participant{}, errorsmod.Wrapf(types.ErrStorageFailure, "decode participant: %s", err)
	}
	return participant, nil
}

func unwrapSDKContext(ctx context.Context) (sdk.Context, bool) {
	if ctx == nil {
		return sdk.Context{}, false
	}
	if sdkCtx, ok := ctx.(sdk.Context); ok {
		return sdkCtx, true
	}
	if val := ctx.Value(sdk.SdkContextKey); val != nil {
		if sdkCtx, ok := val.(sdk.Context); ok {
			return sdkCtx, true
		}
	}
	return sdk.Context{}, false
}

// contextNow returns the block time in unix seconds. The block header is
// the only clock the pool accepts.
func contextNow(ctx context.Context) (sdk.Context, int64, error) {
	sdkCtx, ok := unwrapSDKContext(ctx)
	if !ok {
		return sdk.Context{}, 0, fmt.Errorf("stakepool operations require an sdk.Context carrying the block time")
	}
	return sdkCtx, sdkCtx.BlockTime().Unix(), nil
}

func emitEventIfPossible(ctx sdk.Context, event sdk.Event) {
	if em := ctx.EventManager(); em != nil {
		em.EmitEvent(event)
	}
}
