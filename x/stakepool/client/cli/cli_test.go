package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/Zukitata03/staking-contract/x/stakepool/client/cli"
	"github.com/Zukitata03/staking-contract/x/stakepool/keeper"
	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

type noopBank struct{}

func (noopBank) SendCoinsFromModuleToAccount(context.Context, string, sdk.AccAddress, sdk.Coins) error {
	return nil
}

// memStore keeps one committed rootmulti store across sessions.
type memStore struct {
	cms     *rootmulti.Store
	keeper  keeper.Keeper
	commits int
}

type memSession struct {
	store *memStore
	ctx   sdk.Context
}

func (s memSession) Context() sdk.Context  { return s.ctx }
func (s memSession) Keeper() keeper.Keeper { return s.store.keeper }
func (s memSession) Close(commit bool) error {
	if commit {
		s.store.cms.Commit()
		s.store.commits++
	}
	return nil
}

func newMemStore(t *testing.T, genesis time.Time) *memStore {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	cms := rootmulti.NewStore(dbm.NewMemDB(), log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	reg := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(reg)
	k := keeper.NewKeeper(codec.NewProtoCodec(reg), runtime.NewKVStoreService(storeKey), noopBank{}, "cosmos1gov")

	ctx := sdk.NewContext(cms, tmproto.Header{Height: 1, Time: genesis}, false, log.NewNopLogger())
	require.NoError(t, k.InitPool(ctx, types.DefaultParams()))
	cms.Commit()

	return &memStore{cms: cms, keeper: k}
}

func (m *memStore) opener() cli.Opener {
	return func(_ *cobra.Command, blockTime time.Time) (cli.Session, error) {
		header := tmproto.Header{Height: m.cms.LastCommitID().Version + 1, Time: blockTime}
		return memSession{store: m, ctx: sdk.NewContext(m.cms, header, false, log.NewNopLogger())}, nil
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testAddr(b byte) string {
	bz := make([]byte, 20)
	for i := range bz {
		bz[i] = b
	}
	return sdk.AccAddress(bz).String()
}

func TestParseBlockTime(t *testing.T) {
	got, err := cli.ParseBlockTime("1700000000")
	require.NoError(t, err)
	require.Equal(t, time.Unix(1_700_000_000, 0).UTC(), got)

	got, err = cli.ParseBlockTime("2024-01-02T03:04:05Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got)

	got, err = cli.ParseBlockTime("  ")
	require.NoError(t, err)
	require.True(t, got.IsZero())

	_, err = cli.ParseBlockTime("yesterday-ish")
	require.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	c, err := cli.ParseAmount("250uorai")
	require.NoError(t, err)
	require.Equal(t, "uorai", c.Denom)
	require.True(t, c.Amount.Equal(sdkmath.NewInt(250)))

	_, err = cli.ParseAmount("uorai")
	require.Error(t, err)
}

func TestTxAndQueryCommandsShareCommittedState(t *testing.T) {
	genesis := time.Unix(1_700_000_000, 0).UTC()
	store := newMemStore(t, genesis)
	alice := testAddr(1)

	out, err := run(t, cli.GetTxCmd(store.opener()), "stake", alice, "100uorai", "--time", "1700000000")
	require.NoError(t, err)
	var staked keeper.OperationResult
	require.NoError(t, json.Unmarshal([]byte(out), &staked))
	require.True(t, staked.Participant.StakedAmount.Equal(sdkmath.NewInt(100)))
	require.Equal(t, 1, store.commits)

	out, err = run(t, cli.GetQueryCmd(store.opener()), "participant", alice, "--time", "1702592000")
	require.NoError(t, err)
	var summary keeper.ParticipantSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.True(t, summary.Claimable.IsPositive())
	require.Equal(t, 1, store.commits)

	out, err = run(t, cli.GetTxCmd(store.opener()), "claim", alice, "--time", "1702592000")
	require.NoError(t, err)
	var claimed keeper.OperationResult
	require.NoError(t, json.Unmarshal([]byte(out), &claimed))
	require.True(t, claimed.Payout.Amount.Equal(summary.Claimable))
	require.Equal(t, 2, store.commits)

	out, err = run(t, cli.GetQueryCmd(store.opener()), "invariants", "--time", "1702592000")
	require.NoError(t, err)
	require.Contains(t, out, `"broken": false`)
}

func TestFailedTxIsNotCommitted(t *testing.T) {
	store := newMemStore(t, time.Unix(1_700_000_000, 0).UTC())
	alice := testAddr(1)

	_, err := run(t, cli.GetTxCmd(store.opener()), "withdraw", alice, "5uorai", "--time", "1700000010")
	require.ErrorIs(t, err, types.ErrInsufficientStaked)
	require.Equal(t, 0, store.commits)

	_, err = run(t, cli.GetTxCmd(store.opener()), "stake", alice, "0uorai")
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, err = run(t, cli.GetTxCmd(store.opener()), "stake", alice, "5uorai", "--time", "not-a-time")
	require.Error(t, err)
	require.Equal(t, 0, store.commits)
}
