package keeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/Zukitata03/staking-contract/x/stakepool/keeper"
	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

const (
	testDenom   = "uorai"
	genesisUnix = int64(1_770_000_000)
	month       = int64(30 * 24 * 60 * 60)
)

var testBudget = sdkmath.NewInt(1_000_000)

type sentPayout struct {
	module    string
	recipient sdk.AccAddress
	amount    sdk.Coins
}

type mockBankKeeper struct {
	sent []sentPayout
	err  error
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipient sdk.AccAddress, amt sdk.Coins) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentPayout{module: senderModule, recipient: recipient, amount: amt})
	return nil
}

func (m *mockBankKeeper) total() sdkmath.Int {
	sum := sdkmath.ZeroInt()
	for _, p := range m.sent {
		sum = sum.Add(p.amount.AmountOf(testDenom))
	}
	return sum
}

func setupKeeper(t *testing.T) (keeper.Keeper, sdk.Context, *mockBankKeeper) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{
		ChainID: "rebasepool-test-1",
		Height:  1,
		Time:    time.Unix(genesisUnix, 0).UTC(),
	}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	reg := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(reg)
	cdc := codec.NewProtoCodec(reg)

	bank := &mockBankKeeper{}
	k := keeper.NewKeeper(
		cdc,
		runtime.NewKVStoreService(storeKey),
		bank,
		"cosmos1gov",
	)

	return k, ctx, bank
}

// setupPool returns a keeper whose pool was initialized at genesisUnix with
// a budget of testBudget per 30-day month.
func setupPool(t *testing.T) (keeper.Keeper, sdk.Context, *mockBankKeeper) {
	t.Helper()
	k, ctx, bank := setupKeeper(t)
	require.NoError(t, k.InitPool(ctx, testParams()))
	return k, ctx, bank
}

func testParams() types.Params {
	return types.NewParams(sdk.NewCoin(testDenom, testBudget), time.Duration(month)*time.Second)
}

func at(ctx sdk.Context, offset int64) sdk.Context {
	return ctx.WithBlockTime(time.Unix(genesisUnix+offset, 0).UTC())
}

func testAddr(b byte) string {
	bz := make([]byte, 20)
	for i := range bz {
		bz[i] = b
	}
	return sdk.AccAddress(bz).String()
}

func coin(amount int64) sdk.Coin {
	return sdk.NewInt64Coin(testDenom, amount)
}

func stake(t *testing.T, k keeper.Keeper, ctx sdk.Context, addr string, amount int64) *keeper.OperationResult {
	t.Helper()
	res, err := k.Stake(ctx, types.MsgStake{Participant: addr, Amount: coin(amount)})
	require.NoError(t, err)
	return res
}

func mustParticipant(t *testing.T, k keeper.Keeper, ctx sdk.Context, addr string) types.Participant {
	t.Helper()
	p, found, err := k.GetParticipant(ctx, addr)
	require.NoError(t, err)
	require.True(t, found, "participant %s not found", addr)
	return p
}

func mustPool(t *testing.T, k keeper.Keeper, ctx sdk.Context) types.PoolState {
	t.Helper()
	pool, err := k.GetPool(ctx)
	require.NoError(t, err)
	return pool
}

// requireWithin asserts |got - want| <= tolerance.
func requireWithin(t *testing.T, want, got sdkmath.Int, tolerance int64) {
	t.Helper()
	require.True(t, got.Sub(want).Abs().LTE(sdkmath.NewInt(tolerance)), "want %s, got %s (tolerance %d)", want, got, tolerance)
}

var errBankDown = errors.New("bank unavailable")
