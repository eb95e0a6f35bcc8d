// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stake/thor"
)

// Delegate moves staking tokens into a validator's delegation pool.
type Delegate struct {
	Validator        thor.Bytes32
	EpochIndex       uint64
	UnbondedAmount   uint64
	DelegationAmount uint64
}

// Undelegate withdraws delegation tokens from a validator's pool.
type Undelegate struct {
	Validator        thor.Bytes32
	EpochIndex       uint64
	DelegationAmount uint64
	UnbondedAmount   uint64
}

// Changes are the delegation actions included in one block.
type Changes struct {
	Delegations   []Delegate
	Undelegations []Undelegate
}

// IsEmpty reports whether the block carried no delegation action.
func (c *Changes) IsEmpty() bool {
	return len(c.Delegations) == 0 && len(c.Undelegations) == 0
}

// Totals is the net delegation activity of one validator, in delegation
// token units.
type Totals struct {
	Delegated   uint64
	Undelegated uint64
}

// Delta returns delegated minus undelegated as a magnitude and sign.
func (t Totals) Delta() (amount uint64, negative bool) {
	if t.Undelegated > t.Delegated {
		return t.Undelegated - t.Delegated, true
	}
	return t.Delegated - t.Undelegated, false
}

// Aggregate sums the changes of many blocks per validator.
func Aggregate(changes []Changes) (map[thor.Bytes32]Totals, error) {
	totals := make(map[thor.Bytes32]Totals)
	for _, c := range changes {
		for _, d := range c.Delegations {
			t := totals[d.Validator]
			sum, overflow := math.SafeAdd(t.Delegated, d.DelegationAmount)
			if overflow {
				return nil, errors.Errorf("delegation total overflow for %s", d.Validator.AbbrevString())
			}
			t.Delegated = sum
			totals[d.Validator] = t
		}
		for _, u := range c.Undelegations {
			t := totals[u.Validator]
			sum, overflow := math.SafeAdd(t.Undelegated, u.DelegationAmount)
			if overflow {
				return nil, errors.Errorf("undelegation total overflow for %s", u.Validator.AbbrevString())
			}
			t.Undelegated = sum
			totals[u.Validator] = t
		}
	}
	return totals, nil
}
