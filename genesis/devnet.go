// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/params"
	"github.com/vechain/stake/thor"
)

// DevValidator is a validator of the development network.
type DevValidator struct {
	IdentityKey  thor.Bytes32
	ConsensusKey consensus.PublicKey
	Stream       thor.Address
}

// DevValidators returns the deterministic validators of the devnet.
func DevValidators() []DevValidator {
	vals := make([]DevValidator, 4)
	for i := range vals {
		vals[i] = DevValidator{
			IdentityKey:  thor.Blake2b([]byte(fmt.Sprintf("devnet/identity/%d", i))),
			ConsensusKey: consensus.PublicKey(thor.Blake2b([]byte(fmt.Sprintf("devnet/consensus/%d", i)))),
			Stream:       thor.BytesToAddress([]byte(fmt.Sprintf("devnet/stream/%d", i))),
		}
	}
	return vals
}

// DevTreasury holds the staking tokens of the devnet.
var DevTreasury = thor.BytesToAddress([]byte("devnet/treasury"))

// NewDevnet creates the genesis of the development network: short epochs,
// three funded validators and one without delegation.
func NewDevnet() *Genesis {
	cp := params.Default()
	cp.ActiveValidatorLimit = 3
	cp.EpochDuration = 20
	cp.SignedBlocksWindowLen = 100
	cp.MissedBlocksMaximum = 50

	custom := CustomGenesis{
		Name:   "devnet",
		Params: &cp,
		Allocations: []Allocation{
			{Address: DevTreasury, Amount: 1_000_000_000},
		},
	}
	pools := []uint64{30_000_000, 20_000_000, 10_000_000, 0}
	for i, dv := range DevValidators() {
		custom.Validators = append(custom.Validators, Validator{
			IdentityKey:    dv.IdentityKey,
			ConsensusKey:   dv.ConsensusKey,
			Name:           fmt.Sprintf("dev-%d", i),
			FundingStreams: []FundingStream{{Recipient: dv.Stream, RateBps: 500}},
		})
		if pools[i] > 0 {
			id := dv.IdentityKey
			custom.Allocations = append(custom.Allocations, Allocation{Address: DevTreasury, Amount: pools[i], Validator: &id})
		}
	}

	g, err := New(custom)
	if err != nil {
		panic(err)
	}
	return g
}
