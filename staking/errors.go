// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

var (
	// ErrIllegalTransition is returned for a state change the state machine forbids.
	ErrIllegalTransition = validator.ErrIllegalTransition
	// ErrMissingInvariantRecord means a known validator lacks a record that
	// must always exist. The state is corrupted.
	ErrMissingInvariantRecord = errors.New("missing invariant record")
	// ErrOutOfBoundsVotingPower is returned for a power outside [0, MaxVotingPower].
	ErrOutOfBoundsVotingPower = errors.New("voting power out of bounds")
	// ErrUnknownValidatorEvidence is returned for evidence against an unknown address.
	ErrUnknownValidatorEvidence = errors.New("evidence for unknown validator")
)

func missing(what string, id thor.Bytes32) error {
	return errors.Wrapf(ErrMissingInvariantRecord, "%s of validator %s", what, id.AbbrevString())
}
