// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/thor"
)

// MaxCommissionBps caps the summed funding stream rates.
const MaxCommissionBps = 10_000

// FundingStream is a commission recipient and its rate in basis points.
type FundingStream struct {
	Recipient thor.Address
	RateBps   uint16
}

// Validator is the operator-supplied definition of a validator.
type Validator struct {
	IdentityKey    thor.Bytes32
	ConsensusKey   consensus.PublicKey
	Name           string
	Website        string
	Description    string
	Enabled        bool
	FundingStreams []FundingStream
	// Sequence must increase with every published update.
	Sequence uint32
}

// CommissionBps returns the sum of all funding stream rates.
func (v *Validator) CommissionBps() uint64 {
	var sum uint64
	for _, fs := range v.FundingStreams {
		sum += uint64(fs.RateBps)
	}
	return sum
}

// Validate checks the definition for well-formedness.
func (v *Validator) Validate() error {
	if v.IdentityKey.IsZero() {
		return errors.New("identity key is empty")
	}
	if v.ConsensusKey == (consensus.PublicKey{}) {
		return errors.New("consensus key is empty")
	}
	if v.Name == "" {
		return errors.New("name is empty")
	}
	for i, fs := range v.FundingStreams {
		if fs.Recipient.IsZero() {
			return errors.Errorf("funding stream %d has no recipient", i)
		}
	}
	if sum := v.CommissionBps(); sum > MaxCommissionBps {
		return errors.Errorf("total commission %d bps exceeds 100%%", sum)
	}
	return nil
}
