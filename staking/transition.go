// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/penalty"
	"github.com/vechain/stake/staking/uptime"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// SetValidatorState moves a validator to a new state and applies the side
// effects of the transition.
func (s *Staking) SetValidatorState(bctx *BlockContext, id thor.Bytes32, to validator.State) error {
	from, err := s.validatorState(id)
	if err != nil {
		return err
	}
	effect, err := validator.Transition(from, to)
	if err != nil {
		return err
	}

	switch effect {
	case validator.NoOp:
		return nil
	case validator.Record:
	case validator.Activate:
		if err := s.activate(bctx, id); err != nil {
			return err
		}
	case validator.Deactivate:
		if err := s.startUnbonding(bctx, id); err != nil {
			return err
		}
	case validator.Jail:
		if err := s.slash(bctx, id, event.SlashDowntime); err != nil {
			return err
		}
		if err := s.startUnbonding(bctx, id); err != nil {
			return err
		}
	case validator.Tombstone:
		if err := s.slash(bctx, id, event.SlashMisbehavior); err != nil {
			return err
		}
		if err := s.setBondingState(bctx, id, validator.UnbondedState()); err != nil {
			return err
		}
	}

	if err := s.states.Set(id, to); err != nil {
		return err
	}
	bctx.Events.Append(event.StateChanged{Validator: id, From: from, To: to})
	logger.Info("validator state changed", "validator", id.AbbrevString(), "from", from, "to", to, "height", bctx.Height)
	return nil
}

func (s *Staking) activate(bctx *BlockContext, id thor.Bytes32) error {
	if _, err := s.ValidatorPower(id); err != nil {
		return err
	}
	cp, err := s.params.Load()
	if err != nil {
		return err
	}
	if err := s.setBondingState(bctx, id, validator.BondedState()); err != nil {
		return err
	}
	return s.uptimes.Set(id, uptime.New(bctx.Height, cp.SignedBlocksWindowLen))
}

func (s *Staking) startUnbonding(bctx *BlockContext, id thor.Bytes32) error {
	end, err := s.UnbondingEndEpochFor(id, bctx.Epoch.Index)
	if err != nil {
		return err
	}
	return s.setBondingState(bctx, id, validator.UnbondingState(end))
}

// slash records the configured penalty for the infraction in the bucket of
// the current epoch. It is applied to the exchange rate when the epoch ends.
func (s *Staking) slash(bctx *BlockContext, id thor.Bytes32, reason event.SlashReason) error {
	cp, err := s.params.Load()
	if err != nil {
		return err
	}
	r := cp.SlashingPenaltyDowntime
	if reason == event.SlashMisbehavior {
		r = cp.SlashingPenaltyMisbehavior
	}
	p, err := penalty.FromRate(r)
	if err != nil {
		return errors.Wrapf(err, "%s penalty", reason)
	}
	if err := s.penalties.Record(id, bctx.Epoch.Index, p); err != nil {
		return err
	}
	bctx.Events.Append(event.Slashed{Validator: id, Epoch: bctx.Epoch.Index, Reason: reason, Rate: r})
	logger.Info("validator slashed", "validator", id.AbbrevString(), "reason", reason, "penalty", p)
	return nil
}
