// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrIllegalTransition is matched by every rejected state transition.
var ErrIllegalTransition = errors.New("illegal validator state transition")

// IllegalTransitionError describes a rejected transition.
type IllegalTransitionError struct {
	From, To State
	Reason   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal validator state transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// Is makes the error match ErrIllegalTransition.
func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// Effect is the side effect a state transition requires besides recording
// the new state.
type Effect uint8

const (
	// NoOp leaves everything untouched.
	NoOp = Effect(iota)
	// Record only writes the new state.
	Record
	// Activate bonds the pool and resets the signing window.
	Activate
	// Deactivate starts unbonding the pool.
	Deactivate
	// Jail records the downtime penalty and starts unbonding the pool.
	Jail
	// Tombstone records the misbehavior penalty and unbonds the pool at once.
	Tombstone
)

func (e Effect) String() string {
	switch e {
	case NoOp:
		return "no-op"
	case Record:
		return "record"
	case Activate:
		return "activate"
	case Deactivate:
		return "deactivate"
	case Jail:
		return "jail"
	case Tombstone:
		return "tombstone"
	}
	return fmt.Sprintf("effect(%d)", uint8(e))
}

func illegal(from, to State, reason string) (Effect, error) {
	return NoOp, &IllegalTransitionError{from, to, reason}
}

// Transition returns the effect of moving a validator from one state to
// another, or an *IllegalTransitionError. It panics on a value outside the
// defined states.
func Transition(from, to State) (Effect, error) {
	if to > Tombstoned {
		panic(fmt.Sprintf("unknown validator state %d", to))
	}

	switch from {
	case Inactive:
		switch to {
		case Inactive:
			return NoOp, nil
		case Active:
			return Activate, nil
		case Disabled:
			return Record, nil
		case Jailed:
			return illegal(from, to, "only active validators can be jailed")
		case Tombstoned:
			return Tombstone, nil
		}
	case Active:
		switch to {
		case Active:
			return NoOp, nil
		case Inactive, Disabled:
			return Deactivate, nil
		case Jailed:
			return Jail, nil
		case Tombstoned:
			return Tombstone, nil
		}
	case Disabled:
		switch to {
		case Disabled:
			return NoOp, nil
		case Inactive:
			return Record, nil
		case Active:
			return illegal(from, to, "disabled validators must be re-enabled first")
		case Jailed:
			return illegal(from, to, "only active validators can be jailed")
		case Tombstoned:
			return Tombstone, nil
		}
	case Jailed:
		switch to {
		case Inactive, Disabled:
			return Record, nil
		case Active:
			return illegal(from, to, "jailed validators must be unjailed first")
		case Jailed:
			return illegal(from, to, "only active validators can be jailed")
		case Tombstoned:
			return Tombstone, nil
		}
	case Tombstoned:
		return illegal(from, to, "tombstoned validators cannot transition")
	}
	panic(fmt.Sprintf("unknown validator state %d", from))
}
