// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking/delegation"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/rate"
	"github.com/vechain/stake/staking/supply"
	"github.com/vechain/stake/staking/validator"
)

func TestGenesisScenario(t *testing.T) {
	c := newTestChain(t, testParams(), 100, 0)

	for i := range c.validators {
		assert.Equal(t, validator.Active, c.state(i))
		assert.Equal(t, validator.BondedState(), c.bonding(i))
	}
	p0, _ := c.staking.ValidatorPower(c.id(0))
	p1, _ := c.staking.ValidatorPower(c.id(1))
	assert.Equal(t, uint64(100), p0)
	assert.Equal(t, uint64(0), p1)
	assert.Equal(t, []consensus.ValidatorUpdate{
		{PubKey: c.validators[0].ConsensusKey, Power: 100},
	}, c.genesis.ValidatorUpdates)

	// nothing accrues until the first epoch boundary
	current, err := c.staking.CurrentBaseRate()
	require.NoError(t, err)
	next, err := c.staking.NextBaseRate()
	require.NoError(t, err)
	assert.Equal(t, rate.GenesisBaseRate(0), current)
	assert.Equal(t, rate.GenesisBaseRate(1), next)
	assert.Zero(t, next.BaseRewardRate)
	for i := range c.validators {
		nextRate, err := c.staking.NextValidatorRate(c.id(i))
		require.NoError(t, err)
		assert.Equal(t, rate.GenesisRate(c.id(i), 1), nextRate)
	}

	last := c.runEpoch(1)
	assert.Equal(t, uint64(9), last.Height)
	assert.Equal(t, validator.Active, c.state(0))
	assert.Equal(t, validator.Inactive, c.state(1))
	assert.Equal(t, validator.UnbondingState(2), c.bonding(1))
	assert.Equal(t, []consensus.ValidatorUpdate{
		{PubKey: c.validators[0].ConsensusKey, Power: 100},
	}, last.ValidatorUpdates)

	ended := event.Filter[event.EpochEnded](&last.Events)
	require.Len(t, ended, 1)
	assert.Equal(t, uint64(0), ended[0].Epoch.Index)
}

func TestRateRollover(t *testing.T) {
	c := newTestChain(t, testParams(), 100, 0)

	for e := uint64(0); e < 3; e++ {
		from := e * c.params.EpochDuration
		if e == 0 {
			from = 1
		}
		c.runEpoch(from)

		current, err := c.staking.CurrentBaseRate()
		require.NoError(t, err)
		next, err := c.staking.NextBaseRate()
		require.NoError(t, err)
		assert.Equal(t, e+1, current.EpochIndex)
		assert.Equal(t, e+2, next.EpochIndex)
		assert.Equal(t, c.params.BaseRewardRate, next.BaseRewardRate)

		for i := range c.validators {
			cur, err := c.staking.CurrentValidatorRate(c.id(i))
			require.NoError(t, err)
			nxt, err := c.staking.NextValidatorRate(c.id(i))
			require.NoError(t, err)
			assert.Equal(t, e+1, cur.EpochIndex)
			assert.Equal(t, e+2, nxt.EpochIndex)
		}
	}

	// the demoted validator is released two epochs after epoch 0
	assert.Equal(t, validator.UnbondedState(), c.bonding(1))
	// the active one accrues, the inactive one rolls over flat
	r0, _ := c.staking.NextValidatorRate(c.id(0))
	cur0, _ := c.staking.CurrentValidatorRate(c.id(0))
	assert.True(t, r0.ExchangeRate.Gt(cur0.ExchangeRate))

	r1, _ := c.staking.NextValidatorRate(c.id(1))
	cur1, _ := c.staking.CurrentValidatorRate(c.id(1))
	assert.Equal(t, cur1.ExchangeRate, r1.ExchangeRate)
}

func TestActiveSetSelection(t *testing.T) {
	cp := testParams()
	cp.ActiveValidatorLimit = 2
	c := newTestChain(t, cp, 10, 5, 5, 0)

	last := c.runEpoch(1)

	winner, loser := 1, 2
	if c.id(2).Compare(c.id(1)) < 0 {
		winner, loser = 2, 1
	}
	assert.Equal(t, validator.Active, c.state(0))
	assert.Equal(t, validator.Active, c.state(winner))
	assert.Equal(t, validator.Inactive, c.state(loser))
	assert.Equal(t, validator.Inactive, c.state(3))

	powers := make(map[consensus.PublicKey]int64)
	for _, u := range last.ValidatorUpdates {
		powers[u.PubKey] = u.Power
	}
	assert.Equal(t, map[consensus.PublicKey]int64{
		c.validators[0].ConsensusKey:      10,
		c.validators[winner].ConsensusKey: 5,
		c.validators[loser].ConsensusKey:  0,
	}, powers)
}

func TestSlashAppliedAtEpochEnd(t *testing.T) {
	c := newTestChain(t, testParams(), 100)

	for h := uint64(1); h < 5; h++ {
		c.runBlock(h, nil)
	}
	bctx := c.bctx(5)
	evidence := []consensus.Evidence{{
		Type:    consensus.EvidenceTypeDuplicateVote,
		Address: consensus.AddressOf(c.validators[0].ConsensusKey),
		Height:  4,
	}}
	require.NoError(t, c.staking.BeginBlock(bctx, evidence, c.allSigned()))
	require.NoError(t, c.staking.EndBlock(bctx))
	assert.Equal(t, validator.Tombstoned, c.state(0))

	c.runEpoch(6)

	current, err := c.staking.CurrentValidatorRate(c.id(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(90_000_000), current.ExchangeRate.Uint64())
	next, err := c.staking.NextValidatorRate(c.id(0))
	require.NoError(t, err)
	assert.Equal(t, current.ExchangeRate, next.ExchangeRate)

	power, err := c.staking.ValidatorPower(c.id(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(90), power)
}

func TestDelegationChangesApplied(t *testing.T) {
	c := newTestChain(t, testParams(), 100)
	id := c.id(0)
	token := supply.DelegationToken(id)

	c.runBlock(1, func(bctx *BlockContext) {
		require.NoError(t, c.staking.Delegate(bctx, delegation.Delegate{
			Validator: id, EpochIndex: 0, UnbondedAmount: 50, DelegationAmount: 50,
		}))
		assert.Error(t, c.staking.Delegate(bctx, delegation.Delegate{
			Validator: id, EpochIndex: 0, UnbondedAmount: 50, DelegationAmount: 49,
		}))
		assert.Error(t, c.staking.Delegate(bctx, delegation.Delegate{
			Validator: id, EpochIndex: 1, UnbondedAmount: 50, DelegationAmount: 50,
		}))
	})
	c.runEpoch(2)

	pool, _ := c.staking.Supply().TokenSupply(token)
	staked, _ := c.staking.Supply().TokenSupply(supply.StakingToken)
	assert.Equal(t, uint64(150), pool)
	assert.Equal(t, uint64(1_000_000-50), staked)
	power, _ := c.staking.ValidatorPower(id)
	assert.Equal(t, uint64(150), power)

	c.runBlock(10, func(bctx *BlockContext) {
		// the genesis next rate carried no reward, the exchange rate is still 1
		require.NoError(t, c.staking.Undelegate(bctx, delegation.Undelegate{
			Validator: id, EpochIndex: 1, DelegationAmount: 10, UnbondedAmount: 10,
		}))
	})
	c.runEpoch(11)

	pool, _ = c.staking.Supply().TokenSupply(token)
	staked, _ = c.staking.Supply().TokenSupply(supply.StakingToken)
	assert.Equal(t, uint64(140), pool)
	assert.Equal(t, uint64(1_000_000-40), staked)
	power, _ = c.staking.ValidatorPower(id)
	assert.Equal(t, uint64(140), power)
}

type recordingMinter struct {
	supply.Minter
	requests []supply.MintRequest
}

func (m *recordingMinter) Mint(req supply.MintRequest) error {
	m.requests = append(m.requests, req)
	return m.Minter.Mint(req)
}

func TestCommissionPaid(t *testing.T) {
	c := newTestChain(t, testParams(), 1_000_000_000)
	minter := &recordingMinter{Minter: c.staking.Supply()}
	c.staking.WithMinter(minter)
	stream := c.validators[0].FundingStreams[0].Recipient

	// the base exchange rate does not move in epoch 0
	last := c.runEpoch(1)
	assert.Empty(t, last.Mints)
	assert.Empty(t, minter.requests)

	last = c.runEpoch(10)
	require.Len(t, last.Mints, 1)
	assert.Equal(t, uint64(3000), last.Mints[0].Amount)
	assert.Equal(t, supply.SourceFundingStreamReward, last.Mints[0].Source.Kind)
	assert.Equal(t, uint64(1), last.Mints[0].Source.EpochIndex)
	assert.Equal(t, last.Mints, minter.requests)

	bal, err := c.staking.Supply().Balance(supply.StakingToken, stream)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), bal)
	minted, _ := c.staking.Supply().RewardsMinted(1)
	assert.Equal(t, uint64(3000), minted)

	paid := event.Filter[event.CommissionPaid](&last.Events)
	require.Len(t, paid, 1)
	assert.Equal(t, stream, paid[0].Recipient)
	assert.Equal(t, uint64(1), paid[0].Epoch)
}

func TestEndEpochMissingChanges(t *testing.T) {
	c := newTestChain(t, testParams(), 100)
	bctx := c.bctx(9)

	err := c.staking.EndEpoch(bctx, bctx.Epoch)
	assert.True(t, errors.Is(err, ErrMissingInvariantRecord))
}
