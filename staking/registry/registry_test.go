// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/muxdb"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

func newValidator(name string, ck byte) *validator.Validator {
	return &validator.Validator{
		IdentityKey:  thor.Blake2b([]byte(name)),
		ConsensusKey: consensus.PublicKey{ck},
		Name:         name,
		Enabled:      true,
		FundingStreams: []validator.FundingStream{
			{Recipient: thor.BytesToAddress([]byte(name)), RateBps: 100},
		},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New(state.New(muxdb.NewMem().NewStore("staking")))
	v := newValidator("alice", 1)
	require.NoError(t, r.Register(v))

	got, err := r.Validator(v.IdentityKey)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	id, ok, err := r.IdentityByConsensusKey(v.ConsensusKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, v.IdentityKey, id)

	ck, ok, err := r.ConsensusKeyByAddress(consensus.AddressOf(v.ConsensusKey))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, v.ConsensusKey, ck)

	_, ok, err = r.IdentityByAddress(consensus.Address{0xff})
	require.NoError(t, err)
	assert.False(t, ok)

	unknown, err := r.Validator(thor.Bytes32{})
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestRotateConsensusKey(t *testing.T) {
	r := New(state.New(muxdb.NewMem().NewStore("staking")))
	v := newValidator("bob", 1)
	require.NoError(t, r.Register(v))

	old := v.ConsensusKey
	v.ConsensusKey = consensus.PublicKey{2}
	v.Sequence++
	require.NoError(t, r.Register(v))

	for _, ck := range []consensus.PublicKey{old, v.ConsensusKey} {
		id, ok, err := r.IdentityByAddress(consensus.AddressOf(ck))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, v.IdentityKey, id)
	}
	got, _ := r.Validator(v.IdentityKey)
	assert.Equal(t, v.ConsensusKey, got.ConsensusKey)
}

func TestIdentitiesOrdered(t *testing.T) {
	r := New(state.New(muxdb.NewMem().NewStore("staking")))
	for i, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, r.Register(newValidator(name, byte(i+1))))
	}
	ids, err := r.Identities()
	require.NoError(t, err)
	require.Len(t, ids, 4)
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, ids[i-1].Compare(ids[i]))
	}

	var names []string
	require.NoError(t, r.Iterate(func(v *validator.Validator) error {
		names = append(names, v.Name)
		return nil
	}))
	assert.Len(t, names, 4)
}
