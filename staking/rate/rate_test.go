// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rate

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake/staking/penalty"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

var id = thor.Blake2b([]byte("validator"))

func TestBaseRateNext(t *testing.T) {
	base := GenesisBaseRate(0)
	base.BaseRewardRate = 3_0000

	next, err := base.Next(5_0000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next.EpochIndex)
	assert.Equal(t, uint64(5_0000), next.BaseRewardRate)
	// 1e8 * (1e8 + 3e4) / 1e8
	assert.Equal(t, uint64(1_0003_0000), next.BaseExchangeRate.Uint64())

	after, err := next.Next(5_0000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), after.EpochIndex)
	assert.Equal(t, uint64(1_0008_0015), after.BaseExchangeRate.Uint64())
}

func TestRateNextInactiveIsFlat(t *testing.T) {
	r := GenesisRate(id, 4)
	r.RewardRate = 100
	for _, s := range []validator.State{validator.Inactive, validator.Disabled, validator.Jailed, validator.Tombstoned} {
		next, err := r.Next(BaseRateData{BaseRewardRate: 9_0000, BaseExchangeRate: uint256.NewInt(One)}, nil, s)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), next.EpochIndex)
		assert.Equal(t, uint64(100), next.RewardRate)
		assert.Equal(t, r.ExchangeRate, next.ExchangeRate)
		assert.NotSame(t, r.ExchangeRate, next.ExchangeRate)
	}
}

func TestRateNextActive(t *testing.T) {
	r := GenesisRate(id, 0)
	r.RewardRate = 2_0000
	streams := []validator.FundingStream{
		{Recipient: thor.BytesToAddress([]byte{1}), RateBps: 1000},
		{Recipient: thor.BytesToAddress([]byte{2}), RateBps: 1000},
	}
	nextBase := BaseRateData{EpochIndex: 1, BaseRewardRate: 5_0000, BaseExchangeRate: uint256.NewInt(One)}

	next, err := r.Next(nextBase, streams, validator.Active)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next.EpochIndex)
	// 80% of the base reward rate is kept by delegators
	assert.Equal(t, uint64(4_0000), next.RewardRate)
	// exchange compounds by the previous reward rate
	assert.Equal(t, uint64(1_0002_0000), next.ExchangeRate.Uint64())

	streams[0].RateBps = 9_500
	_, err = r.Next(nextBase, streams, validator.Active)
	assert.Error(t, err)
}

func TestSlash(t *testing.T) {
	r := GenesisRate(id, 0)
	r.ExchangeRate = uint256.NewInt(2 * One)

	p, err := penalty.FromBasisPoints(1000)
	require.NoError(t, err)
	slashed := r.Slash(p)
	assert.Equal(t, uint64(1_8000_0000), slashed.ExchangeRate.Uint64())
	assert.Equal(t, uint64(2*One), r.ExchangeRate.Uint64(), "original untouched")

	assert.Equal(t, r.ExchangeRate, r.Slash(penalty.Identity()).ExchangeRate)
}

func TestConversions(t *testing.T) {
	r := GenesisRate(id, 0)
	r.ExchangeRate = uint256.NewInt(1_5000_0000)

	unbonded, err := r.UnbondedAmount(uint256.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(150), unbonded.Uint64())

	delegation, err := r.DelegationAmount(uint256.NewInt(150))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), delegation.Uint64())

	base := GenesisBaseRate(0)
	base.BaseExchangeRate = uint256.NewInt(1_2000_0000)
	power, err := r.VotingPower(uint256.NewInt(1000), base)
	require.NoError(t, err)
	assert.Equal(t, uint64(1250), power.Uint64())

	r.ExchangeRate = new(uint256.Int)
	_, err = r.DelegationAmount(uint256.NewInt(1))
	assert.Error(t, err)
}

func TestRewardAmount(t *testing.T) {
	cur := BaseRateData{EpochIndex: 1, BaseExchangeRate: uint256.NewInt(One)}
	next := BaseRateData{EpochIndex: 2, BaseExchangeRate: uint256.NewInt(1_0100_0000)}
	fs := validator.FundingStream{Recipient: thor.BytesToAddress([]byte{1}), RateBps: 500}

	// 5% of 1_000_000 tokens, times the 1% base accrual
	amount, err := RewardAmount(fs, uint256.NewInt(1_000_000), next, cur)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount.Uint64())

	amount, err = RewardAmount(fs, uint256.NewInt(1_000_000), cur, cur)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestOverflow(t *testing.T) {
	r := GenesisRate(id, 0)
	r.ExchangeRate = new(uint256.Int).SetAllOne()
	_, err := r.UnbondedAmount(new(uint256.Int).SetAllOne())
	assert.ErrorIs(t, err, ErrOverflow)
}
