// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/thor"
)

func validDefinition() *Validator {
	return &Validator{
		IdentityKey:  thor.Blake2b([]byte("v1")),
		ConsensusKey: consensus.PublicKey{1},
		Name:         "v1",
		Enabled:      true,
		FundingStreams: []FundingStream{
			{Recipient: thor.BytesToAddress([]byte("a")), RateBps: 300},
			{Recipient: thor.BytesToAddress([]byte("b")), RateBps: 200},
		},
	}
}

func TestValidate(t *testing.T) {
	v := validDefinition()
	assert.NoError(t, v.Validate())
	assert.Equal(t, uint64(500), v.CommissionBps())

	v.FundingStreams[0].RateBps = 9_900
	assert.ErrorContains(t, v.Validate(), "exceeds 100%")

	v = validDefinition()
	v.FundingStreams[1].Recipient = thor.Address{}
	assert.Error(t, v.Validate())

	v = validDefinition()
	v.Name = ""
	assert.Error(t, v.Validate())

	v = validDefinition()
	v.IdentityKey = thor.Bytes32{}
	assert.Error(t, v.Validate())

	v = validDefinition()
	v.ConsensusKey = consensus.PublicKey{}
	assert.Error(t, v.Validate())
}
