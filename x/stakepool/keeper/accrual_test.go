package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/Zukitata03/staking-contract/x/stakepool/keeper"
	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

func stakedPool(total int64, rateOffset int64) types.PoolState {
	pool := types.NewPoolState(testDenom, genesisUnix)
	pool.TotalLocked = sdkmath.NewInt(total)
	pool.GlobalExchangeRate = types.ExchangeRateScale.AddRaw(rateOffset)
	if total > 0 {
		eps, err := keeper.EmissionRate(testParams(), pool.TotalLocked)
		if err != nil {
			panic(err)
		}
		pool.EmissionRate = eps
	}
	return pool
}

func TestEmissionRateIsZeroForEmptyPool(t *testing.T) {
	eps, err := keeper.EmissionRate(testParams(), sdkmath.ZeroInt())
	require.NoError(t, err)
	require.True(t, eps.IsZero())

	eps, err = keeper.EmissionRate(testParams(), sdkmath.NewInt(1))
	require.NoError(t, err)
	expected := testBudget.Mul(types.ExchangeRateScale).QuoRaw(month)
	require.True(t, eps.Equal(expected), "got %s", eps)

	// The pool-wide rate does not depend on how much is staked.
	large, err := keeper.EmissionRate(testParams(), sdkmath.NewInt(1_000_000_000))
	require.NoError(t, err)
	require.True(t, large.Equal(eps))

	_, err = keeper.EmissionRate(types.Params{RewardBudget: testParams().RewardBudget}, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestAccrueZeroElapsedIsNoOp(t *testing.T) {
	pool := stakedPool(100, 0)

	next, err := keeper.Accrue(testParams(), pool, genesisUnix)
	require.NoError(t, err)
	require.Equal(t, pool, next)

	advanced, err := keeper.Accrue(testParams(), pool, genesisUnix+60)
	require.NoError(t, err)
	again, err := keeper.Accrue(testParams(), advanced, genesisUnix+60)
	require.NoError(t, err)
	require.Equal(t, advanced, again)
}

func TestAccrueRejectsClockRegression(t *testing.T) {
	pool := stakedPool(100, 0)

	next, err := keeper.Accrue(testParams(), pool, genesisUnix-1)
	require.ErrorIs(t, err, types.ErrClockRegression)
	require.Equal(t, pool, next)
}

func TestAccrueDropsEmissionWhileEmpty(t *testing.T) {
	pool := types.NewPoolState(testDenom, genesisUnix)

	next, err := keeper.Accrue(testParams(), pool, genesisUnix+month)
	require.NoError(t, err)
	require.True(t, next.GlobalExchangeRate.Equal(pool.GlobalExchangeRate))
	require.True(t, next.EmissionRate.IsZero())
	require.Equal(t, genesisUnix+month, next.LastUpdateTime)
}

func TestAccrueAdvancesRateMonotonically(t *testing.T) {
	pool := stakedPool(100, 0)
	params := testParams()

	last := pool.GlobalExchangeRate
	for _, step := range []int64{1, 1, 59, 3_600, 86_400, month} {
		next, err := keeper.Accrue(params, pool, pool.LastUpdateTime+step)
		require.NoError(t, err)
		require.True(t, next.GlobalExchangeRate.GT(last))
		last = next.GlobalExchangeRate
		pool = next
	}
}

func TestAccrueSplitIntervalsMatchSingleInterval(t *testing.T) {
	params := testParams()
	pool := stakedPool(100, 0)

	whole, err := keeper.Accrue(params, pool, genesisUnix+3_600)
	require.NoError(t, err)

	split := pool
	for i := int64(1); i <= 3_600; i += 599 {
		split, err = keeper.Accrue(params, split, genesisUnix+i)
		require.NoError(t, err)
	}
	split, err = keeper.Accrue(params, split, genesisUnix+3_600)
	require.NoError(t, err)

	// Floor division per step may lose at most one unit of the scaled
	// rate per step.
	require.True(t, split.GlobalExchangeRate.LTE(whole.GlobalExchangeRate))
	require.True(t, whole.GlobalExchangeRate.Sub(split.GlobalExchangeRate).LTE(sdkmath.NewInt(10)))
}

func TestPendingRewardNeverNegative(t *testing.T) {
	pool := stakedPool(100, 500)

	ahead := types.Participant{
		Address:              testAddr(1),
		StakedAmount:         sdkmath.NewInt(100),
		ExchangeRateSnapshot: pool.GlobalExchangeRate.AddRaw(1_000),
		AccruedRewards:       sdkmath.ZeroInt(),
	}
	pending, err := keeper.PendingReward(pool, ahead)
	require.NoError(t, err)
	require.True(t, pending.IsZero())

	unstaked := types.NewParticipant(testAddr(2), types.NewPoolState(testDenom, genesisUnix), genesisUnix)
	pending, err = keeper.PendingReward(pool, unstaked)
	require.NoError(t, err)
	require.True(t, pending.IsZero())

	emptyPool := stakedPool(0, 500)
	behind := ahead
	behind.ExchangeRateSnapshot = types.ExchangeRateScale
	pending, err = keeper.PendingReward(emptyPool, behind)
	require.NoError(t, err)
	require.True(t, pending.IsZero())
}

func TestPendingRewardScalesWithStake(t *testing.T) {
	// One whole unit of reward per unit staked.
	pool := stakedPool(300, 0)
	pool.GlobalExchangeRate = types.ExchangeRateScale.MulRaw(2)

	participant := types.Participant{
		Address:              testAddr(1),
		StakedAmount:         sdkmath.NewInt(300),
		ExchangeRateSnapshot: types.ExchangeRateScale,
		AccruedRewards:       sdkmath.ZeroInt(),
	}
	pending, err := keeper.PendingReward(pool, participant)
	require.NoError(t, err)
	require.True(t, pending.Equal(sdkmath.NewInt(300)))
}
