// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import "fmt"

// State is the operational state of a validator.
type State uint8

const (
	Inactive   = State(iota) // known, not in the active set
	Active                   // in the active set, earning rewards
	Disabled                 // switched off by its operator
	Jailed                   // removed for downtime, may be re-enabled
	Tombstoned               // removed for misbehavior, permanently
)

// States lists every state.
var States = []State{Inactive, Active, Disabled, Jailed, Tombstoned}

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	case Jailed:
		return "jailed"
	case Tombstoned:
		return "tombstoned"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// BondingKind tells whether a validator's delegation pool is locked,
// draining or free.
type BondingKind uint8

const (
	Bonded = BondingKind(iota)
	Unbonding
	Unbonded
)

func (k BondingKind) String() string {
	switch k {
	case Bonded:
		return "bonded"
	case Unbonding:
		return "unbonding"
	case Unbonded:
		return "unbonded"
	}
	return fmt.Sprintf("bonding(%d)", uint8(k))
}

// BondingState is the bonding status of a validator. UnbondingEpoch is only
// meaningful when Kind is Unbonding.
type BondingState struct {
	Kind           BondingKind
	UnbondingEpoch uint64
}

// BondedState returns the Bonded bonding state.
func BondedState() BondingState { return BondingState{Kind: Bonded} }

// UnbondedState returns the Unbonded bonding state.
func UnbondedState() BondingState { return BondingState{Kind: Unbonded} }

// UnbondingState returns a bonding state releasing at the given epoch.
func UnbondingState(epoch uint64) BondingState {
	return BondingState{Kind: Unbonding, UnbondingEpoch: epoch}
}

func (b BondingState) String() string {
	if b.Kind == Unbonding {
		return fmt.Sprintf("unbonding(epoch=%d)", b.UnbondingEpoch)
	}
	return b.Kind.String()
}
