// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake/muxdb"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

func newState() *state.State {
	return state.New(muxdb.NewMem().NewStore("staking"))
}

func TestParamsGetSet(t *testing.T) {
	p := New(newState())
	key := thor.BytesToBytes32([]byte("key"))

	_, err := p.Get(key)
	assert.True(t, errors.Is(err, ErrParamNotSet))

	require.NoError(t, p.Set(key, big.NewInt(10)))
	v, err := p.Get(key)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), v)

	assert.Error(t, p.Set(key, big.NewInt(-1)))
}

func TestParamsStoreLoad(t *testing.T) {
	p := New(newState())

	_, err := p.Load()
	assert.Error(t, err)

	c := Default()
	c.ActiveValidatorLimit = 3
	require.NoError(t, p.Store(&c))

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, c, *loaded)
}

func TestChainParamsValidate(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())

	tests := []func(*ChainParams){
		func(c *ChainParams) { c.ActiveValidatorLimit = 0 },
		func(c *ChainParams) { c.SignedBlocksWindowLen = 0 },
		func(c *ChainParams) { c.MissedBlocksMaximum = c.SignedBlocksWindowLen + 1 },
		func(c *ChainParams) { c.MissedBlocksMaximum = 0 },
		func(c *ChainParams) { c.SlashingPenaltyDowntime = FixedPointOne + 1 },
		func(c *ChainParams) { c.SlashingPenaltyMisbehavior = FixedPointOne + 1 },
		func(c *ChainParams) { c.EpochDuration = 0 },
	}
	for i, mutate := range tests {
		c := Default()
		mutate(&c)
		assert.Error(t, c.Validate(), "case %d", i)
		assert.Error(t, New(newState()).Store(&c), "case %d", i)
	}
}
