package types_test

import (
	"strings"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

func addr(b byte) string {
	bz := make([]byte, 20)
	for i := range bz {
		bz[i] = b
	}
	return sdk.AccAddress(bz).String()
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	p := types.NewParams(sdk.NewInt64Coin("uorai", 500), 720*time.Hour)
	require.NoError(t, p.Validate())
	require.Equal(t, uint64(2_592_000), p.EmissionPeriodSeconds)
	require.Equal(t, "uorai", p.Denom())

	zeroBudget := types.NewParams(sdk.NewInt64Coin("uorai", 0), time.Hour)
	require.NoError(t, zeroBudget.Validate())

	cases := map[string]types.Params{
		"empty denom":     {RewardBudget: sdk.Coin{Amount: sdkmath.NewInt(1)}, EmissionPeriodSeconds: 1},
		"bad denom":       {RewardBudget: sdk.Coin{Denom: "1x", Amount: sdkmath.NewInt(1)}, EmissionPeriodSeconds: 1},
		"nil budget":      {RewardBudget: sdk.Coin{Denom: "uorai"}, EmissionPeriodSeconds: 1},
		"negative budget": {RewardBudget: sdk.Coin{Denom: "uorai", Amount: sdkmath.NewInt(-1)}, EmissionPeriodSeconds: 1},
		"zero period":     {RewardBudget: sdk.NewInt64Coin("uorai", 1)},
		"sub-second":      types.NewParams(sdk.NewInt64Coin("uorai", 1), time.Millisecond),
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, params.Validate(), types.ErrInvalidParams)
		})
	}
}

func TestPoolStateValidate(t *testing.T) {
	pool := types.NewPoolState("uorai", 100)
	require.NoError(t, pool.Validate())
	require.True(t, pool.GlobalExchangeRate.Equal(types.ExchangeRateScale))

	withRate := pool
	withRate.EmissionRate = sdkmath.NewInt(5)
	require.Error(t, withRate.Validate())

	belowBaseline := pool
	belowBaseline.GlobalExchangeRate = types.ExchangeRateScale.SubRaw(1)
	require.Error(t, belowBaseline.Validate())

	negative := pool
	negative.TotalLocked = sdkmath.NewInt(-1)
	require.Error(t, negative.Validate())
}

func TestParticipantValidate(t *testing.T) {
	pool := types.NewPoolState("uorai", 100)
	p := types.NewParticipant(addr(1), pool, 100)
	require.NoError(t, p.Validate())
	require.True(t, p.ExchangeRateSnapshot.Equal(pool.GlobalExchangeRate))

	noAddr := p
	noAddr.Address = " "
	require.Error(t, noAddr.Validate())

	negative := p
	negative.AccruedRewards = sdkmath.NewInt(-3)
	require.Error(t, negative.Validate())
}

func TestMsgValidateBasic(t *testing.T) {
	alice := addr(1)

	require.NoError(t, types.MsgStake{Participant: alice, Amount: sdk.NewInt64Coin("uorai", 1)}.ValidateBasic())
	require.NoError(t, types.MsgWithdraw{Participant: alice, Amount: sdk.NewInt64Coin("uorai", 1)}.ValidateBasic())
	require.NoError(t, types.MsgClaim{Participant: alice}.ValidateBasic())

	require.ErrorIs(t, types.MsgStake{Participant: alice}.ValidateBasic(), types.ErrInvalidAmount)
	require.ErrorIs(t, types.MsgStake{Participant: alice, Amount: sdk.NewInt64Coin("uorai", 0)}.ValidateBasic(), types.ErrInvalidAmount)
	require.ErrorIs(t, types.MsgWithdraw{Participant: alice, Amount: sdk.Coin{Denom: "uorai", Amount: sdkmath.NewInt(-2)}}.ValidateBasic(), types.ErrInvalidAmount)
	require.ErrorIs(t, types.MsgClaim{Participant: ""}.ValidateBasic(), types.ErrInvalidAddress)
	require.ErrorIs(t, types.MsgClaim{Participant: "cosmos1notvalid"}.ValidateBasic(), types.ErrInvalidAddress)
}

func TestAddressValidatorCachesCanonicalForm(t *testing.T) {
	v, err := types.NewAddressValidator(2)
	require.NoError(t, err)

	alice := addr(1)
	got, err := v.Canonical("  " + alice + " ")
	require.NoError(t, err)
	require.Equal(t, alice, got)
	require.Equal(t, 1, v.Len())

	_, err = v.Canonical("garbage")
	require.ErrorIs(t, err, types.ErrInvalidAddress)
	require.Equal(t, 1, v.Len())

	for i := byte(2); i < 6; i++ {
		_, err := v.Canonical(addr(i))
		require.NoError(t, err)
	}
	require.Equal(t, 2, v.Len())

	var nilValidator *types.AddressValidator
	got, err = nilValidator.Canonical(alice)
	require.NoError(t, err)
	require.Equal(t, alice, got)
}

func TestEmissionRate(t *testing.T) {
	params := types.NewParams(sdk.NewInt64Coin("uorai", 1_000_000), 720*time.Hour)

	eps, err := types.EmissionRate(params, sdkmath.ZeroInt())
	require.NoError(t, err)
	require.True(t, eps.IsZero())

	eps, err = types.EmissionRate(params, sdkmath.NewInt(7))
	require.NoError(t, err)
	want := types.ExchangeRateScale.MulRaw(1_000_000).QuoRaw(2_592_000)
	require.True(t, eps.Equal(want), "got %s want %s", eps, want)

	_, err = types.EmissionRate(types.Params{RewardBudget: params.RewardBudget}, sdkmath.NewInt(7))
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())

	pool := types.NewPoolState(types.DefaultDenom, 100)
	pool.TotalLocked = sdkmath.NewInt(300)
	eps, err := types.EmissionRate(types.DefaultParams(), pool.TotalLocked)
	require.NoError(t, err)
	pool.EmissionRate = eps
	pool.GlobalExchangeRate = types.ExchangeRateScale.MulRaw(3)

	alice := types.NewParticipant(addr(1), pool, 100)
	alice.StakedAmount = sdkmath.NewInt(100)
	bob := types.NewParticipant(addr(2), pool, 100)
	bob.StakedAmount = sdkmath.NewInt(200)

	valid := types.GenesisState{
		Params:       types.DefaultParams(),
		Pool:         &pool,
		Participants: []types.Participant{alice, bob},
	}
	require.NoError(t, valid.Validate())

	mismatch := valid
	mismatch.Participants = []types.Participant{alice}
	require.ErrorContains(t, mismatch.Validate(), "sum of staked amounts")

	dup := valid
	dup.Participants = []types.Participant{alice, alice, bob}
	dupPool := pool
	dupPool.TotalLocked = sdkmath.NewInt(400)
	dupPool.EmissionRate, err = types.EmissionRate(types.DefaultParams(), dupPool.TotalLocked)
	require.NoError(t, err)
	dup.Pool = &dupPool
	require.ErrorContains(t, dup.Validate(), "duplicate participant")

	ahead := valid
	aheadBob := bob
	aheadBob.ExchangeRateSnapshot = pool.GlobalExchangeRate.AddRaw(1)
	ahead.Participants = []types.Participant{alice, aheadBob}
	require.ErrorContains(t, ahead.Validate(), "ahead of the global exchange rate")

	wrongDenom := valid
	otherPool := pool
	otherPool.Denom = "uatom"
	wrongDenom.Pool = &otherPool
	require.ErrorContains(t, wrongDenom.Validate(), "does not match")

	inflated := valid
	inflatedPool := pool
	inflatedPool.EmissionRate = eps.MulRaw(1000)
	inflated.Pool = &inflatedPool
	require.ErrorContains(t, inflated.Validate(), "emission rate")

	upper := valid
	upperAlice := alice
	upperAlice.Address = strings.ToUpper(alice.Address)
	upper.Participants = []types.Participant{upperAlice, bob}
	require.ErrorContains(t, upper.Validate(), "canonical form")

	// The same account under two spellings.
	twice := valid
	twice.Participants = []types.Participant{upperAlice, alice, bob}
	twicePool := pool
	twicePool.TotalLocked = sdkmath.NewInt(400)
	twicePool.EmissionRate, err = types.EmissionRate(types.DefaultParams(), twicePool.TotalLocked)
	require.NoError(t, err)
	twice.Pool = &twicePool
	require.Error(t, twice.Validate())

	future := valid
	futureBob := bob
	futureBob.LastInteractionTime = pool.LastUpdateTime + 1
	future.Participants = []types.Participant{alice, futureBob}
	require.ErrorContains(t, future.Validate(), "last interaction")

	orphans := types.GenesisState{Params: types.DefaultParams(), Participants: []types.Participant{alice}}
	require.Error(t, orphans.Validate())
}
