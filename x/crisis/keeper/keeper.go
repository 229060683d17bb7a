package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Zukitata03/staking-contract/x/crisis/types"
)

// InvarRoute is one registered invariant.
type InvarRoute struct {
	ModuleName string
	Route      string
	Invar      sdk.Invariant
}

// FullRoute returns module/route.
func (r InvarRoute) FullRoute() string {
	return r.ModuleName + "/" + r.Route
}

// Keeper collects module invariants and freezes mutating operations once
// one of them breaks.
type Keeper struct {
	storeService store.KVStoreService
	authority    string

	// routes is shared by every copy of the keeper.
	routes *[]InvarRoute

	HaltState collections.Item[string]
}

var _ sdk.InvariantRegistry = Keeper{}

// NewKeeper creates a new crisis keeper.
func NewKeeper(
	storeService store.KVStoreService,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	return Keeper{
		storeService: storeService,
		authority:    authority,
		routes:       &[]InvarRoute{},
		HaltState: collections.NewItem(
			sb,
			collections.NewPrefix(types.HaltStateKey),
			"halt_state",
			collections.StringValue,
		),
	}
}

func (k Keeper) GetAuthority() string {
	return k.authority
}

// RegisterRoute implements sdk.InvariantRegistry.
func (k Keeper) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	*k.routes = append(*k.routes, InvarRoute{ModuleName: moduleName, Route: route, Invar: invar})
}

// Routes returns the registered invariants in registration order.
func (k Keeper) Routes() []InvarRoute {
	out := make([]InvarRoute, len(*k.routes))
	copy(out, *k.routes)
	return out
}

// AssertInvariants runs every registered invariant. The first broken one
// activates the halt and is returned as ErrInvariantBroken.
func (k Keeper) AssertInvariants(ctx sdk.Context) error {
	route, msg, broken := k.firstBroken(ctx)
	if !broken {
		return nil
	}

	state := types.HaltState{
		Active:            true,
		Route:             route.FullRoute(),
		Reason:            strings.TrimSpace(msg),
		TriggeredAtHeight: ctx.BlockHeight(),
		TriggeredAtUnix:   ctx.BlockTime().Unix(),
	}
	if err := k.setHaltState(ctx, state); err != nil {
		return err
	}

	ctx.Logger().With("module", "x/"+types.ModuleName).Error("invariant broken, halting operations",
		"route", state.Route,
		"height", state.TriggeredAtHeight,
	)
	emitEventIfPossible(ctx, sdk.NewEvent(
		types.EventTypeHalted,
		sdk.NewAttribute(types.AttributeKeyRoute, state.Route),
		sdk.NewAttribute(types.AttributeKeyReason, state.Reason),
		sdk.NewAttribute(types.AttributeKeyHeight, strconv.FormatInt(state.TriggeredAtHeight, 10)),
	))

	return errorsmod.Wrapf(types.ErrInvariantBroken, "%s: %s", state.Route, state.Reason)
}

// ClearHalt lifts an active halt. Only the authority may do so, and only
// once every invariant holds again.
func (k Keeper) ClearHalt(ctx sdk.Context, requester string) error {
	if strings.TrimSpace(requester) != strings.TrimSpace(k.authority) {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s cannot clear the halt", requester)
	}
	if route, msg, broken := k.firstBroken(ctx); broken {
		return errorsmod.Wrapf(types.ErrInvariantBroken, "%s still broken: %s", route.FullRoute(), strings.TrimSpace(msg))
	}

	state, err := k.GetHaltState(ctx)
	if err != nil {
		return err
	}
	if !state.Active {
		return nil
	}
	state.Active = false
	state.ClearedBy = strings.TrimSpace(requester)
	state.ClearedAtUnix = ctx.BlockTime().Unix()
	if err := k.setHaltState(ctx, state); err != nil {
		return err
	}

	emitEventIfPossible(ctx, sdk.NewEvent(
		types.EventTypeResumed,
		sdk.NewAttribute(types.AttributeKeyRoute, state.Route),
		sdk.NewAttribute(types.AttributeKeyClearer, state.ClearedBy),
	))
	return nil
}

// GetHaltState returns the stored halt state, inactive if none was ever set.
func (k Keeper) GetHaltState(ctx context.Context) (types.HaltState, error) {
	raw, err := k.HaltState.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.HaltState{}, nil
		}
		return types.HaltState{}, err
	}
	var state types.HaltState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return types.HaltState{}, fmt.Errorf("decode halt state: %w", err)
	}
	return state, nil
}

// IsHalted reports whether mutating operations are frozen, and why. An
// unreadable halt record counts as halted.
func (k Keeper) IsHalted(ctx context.Context) (bool, string) {
	state, err := k.GetHaltState(ctx)
	if err != nil {
		return true, err.Error()
	}
	if !state.Active {
		return false, ""
	}
	return true, fmt.Sprintf("%s: %s", state.Route, state.Reason)
}

func (k Keeper) firstBroken(ctx sdk.Context) (InvarRoute, string, bool) {
	for _, route := range *k.routes {
		if msg, broken := route.Invar(ctx); broken {
			return route, msg, true
		}
	}
	return InvarRoute{}, "", false
}

func (k Keeper) setHaltState(ctx context.Context, state types.HaltState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return k.HaltState.Set(ctx, string(raw))
}

func emitEventIfPossible(ctx sdk.Context, event sdk.Event) {
	if em := ctx.EventManager(); em != nil {
		em.EmitEvent(event)
	}
}
