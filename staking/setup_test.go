// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/muxdb"
	"github.com/vechain/stake/params"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

var treasury = thor.BytesToAddress([]byte("treasury"))

func testParams() params.ChainParams {
	cp := params.Default()
	cp.EpochDuration = 10
	return cp
}

func newTestValidator(name string, ck byte, bps uint16) *validator.Validator {
	return &validator.Validator{
		IdentityKey:  thor.Blake2b([]byte(name)),
		ConsensusKey: consensus.PublicKey{ck},
		Name:         name,
		Enabled:      true,
		FundingStreams: []validator.FundingStream{
			{Recipient: thor.BytesToAddress([]byte(name + "-stream")), RateBps: bps},
		},
	}
}

type testChain struct {
	t          *testing.T
	staking    *Staking
	params     params.ChainParams
	validators []*validator.Validator
	genesis    *BlockContext
}

// newTestChain runs genesis with one validator per pool size. A zero pool
// gets no delegation allocation at all.
func newTestChain(t *testing.T, cp params.ChainParams, pools ...uint64) *testChain {
	st := state.New(muxdb.NewMem().NewStore("staking"))
	c := &testChain{t: t, staking: New(st), params: cp}

	g := &Genesis{
		Params:      cp,
		Allocations: []Allocation{{Address: treasury, Amount: 1_000_000}},
	}
	for i, pool := range pools {
		v := newTestValidator(string(rune('a'+i)), byte(i+1), 100)
		c.validators = append(c.validators, v)
		g.Validators = append(g.Validators, v)
		if pool > 0 {
			g.Allocations = append(g.Allocations, Allocation{
				Address:   treasury,
				Amount:    pool,
				Validator: v.IdentityKey,
			})
		}
	}

	c.genesis = NewBlockContext(0, cp.EpochDuration)
	require.NoError(t, c.staking.InitChain(c.genesis, g))
	return c
}

func (c *testChain) id(i int) thor.Bytes32 {
	return c.validators[i].IdentityKey
}

func (c *testChain) bctx(height uint64) *BlockContext {
	return NewBlockContext(height, c.params.EpochDuration)
}

func (c *testChain) allSigned() consensus.CommitInfo {
	var info consensus.CommitInfo
	for _, v := range c.validators {
		info.Votes = append(info.Votes, consensus.VoteInfo{Address: consensus.AddressOf(v.ConsensusKey), SignedLastBlock: true})
	}
	return info
}

// runBlock executes a block in which every validator signs. fn runs between
// begin and end block.
func (c *testChain) runBlock(height uint64, fn func(bctx *BlockContext)) *BlockContext {
	bctx := c.bctx(height)
	require.NoError(c.t, c.staking.BeginBlock(bctx, nil, c.allSigned()))
	if fn != nil {
		fn(bctx)
	}
	require.NoError(c.t, c.staking.EndBlock(bctx))
	return bctx
}

// runEpoch executes the remaining blocks of the epoch containing from and
// returns the context of its last block.
func (c *testChain) runEpoch(from uint64) *BlockContext {
	end := thor.EpochAt(from, c.params.EpochDuration).EndHeight()
	var bctx *BlockContext
	for h := from; h <= end; h++ {
		bctx = c.runBlock(h, nil)
	}
	return bctx
}

func (c *testChain) state(i int) validator.State {
	status, err := c.staking.ValidatorStatus(c.id(i))
	require.NoError(c.t, err)
	return status.State
}

func (c *testChain) bonding(i int) validator.BondingState {
	status, err := c.staking.ValidatorStatus(c.id(i))
	require.NoError(c.t, err)
	return status.BondingState
}
