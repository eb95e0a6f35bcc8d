// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package supply

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake/muxdb"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

func newLedger() *Ledger {
	return NewLedger(state.New(muxdb.NewMem().NewStore("staking")))
}

func TestUpdateTokenSupply(t *testing.T) {
	l := newLedger()

	v, err := l.TokenSupply(StakingToken)
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, l.UpdateTokenSupply(StakingToken, Increase(100)))
	require.NoError(t, l.UpdateTokenSupply(StakingToken, Decrease(40)))
	v, _ = l.TokenSupply(StakingToken)
	assert.Equal(t, uint64(60), v)

	assert.Error(t, l.UpdateTokenSupply(StakingToken, Decrease(61)))
	require.NoError(t, l.UpdateTokenSupply(StakingToken, Increase(math.MaxUint64-60)))
	assert.Error(t, l.UpdateTokenSupply(StakingToken, Increase(1)))
}

func TestUpdatePairAllOrNothing(t *testing.T) {
	l := newLedger()
	delegation := DelegationToken(thor.Blake2b([]byte("v1")))
	require.NoError(t, l.UpdateTokenSupply(StakingToken, Increase(1000)))

	require.NoError(t, l.UpdatePair(delegation, Increase(10), StakingToken, Decrease(10)))
	d, _ := l.TokenSupply(delegation)
	s, _ := l.TokenSupply(StakingToken)
	assert.Equal(t, uint64(10), d)
	assert.Equal(t, uint64(990), s)

	// the second leg fails, the first must not be written
	assert.Error(t, l.UpdatePair(delegation, Increase(5), StakingToken, Decrease(5000)))
	d, _ = l.TokenSupply(delegation)
	assert.Equal(t, uint64(10), d)
}

func TestMint(t *testing.T) {
	l := newLedger()
	addr := thor.BytesToAddress([]byte("stream"))

	require.NoError(t, l.Mint(MintRequest{
		Amount:    25,
		Asset:     StakingToken,
		Recipient: addr,
		Source:    Source{Kind: SourceFundingStreamReward, EpochIndex: 3},
	}))
	require.NoError(t, l.Mint(MintRequest{Amount: 5, Asset: StakingToken, Recipient: addr, Source: Source{Kind: SourceFundingStreamReward, EpochIndex: 3}}))
	require.NoError(t, l.Mint(MintRequest{Amount: 0, Asset: StakingToken, Recipient: addr}))

	bal, err := l.Balance(StakingToken, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), bal)

	s, _ := l.TokenSupply(StakingToken)
	assert.Equal(t, uint64(30), s)

	minted, err := l.RewardsMinted(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), minted)
}

func TestDelegationTokenDistinct(t *testing.T) {
	a := DelegationToken(thor.Blake2b([]byte("a")))
	b := DelegationToken(thor.Blake2b([]byte("b")))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, StakingToken, a)
	assert.Equal(t, "+3", Increase(3).String())
	assert.Equal(t, "-3", Decrease(3).String())
}
