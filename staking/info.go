// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/staking/rate"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// Status is the dynamic part of a validator.
type Status struct {
	IdentityKey  thor.Bytes32
	State        validator.State
	BondingState validator.BondingState
	VotingPower  uint64
}

// Info is everything known about a validator.
type Info struct {
	Validator *validator.Validator
	Status    Status
	RateData  rate.RateData
}

// ValidatorStatus returns the status of a validator.
func (s *Staking) ValidatorStatus(id thor.Bytes32) (*Status, error) {
	st, err := s.validatorState(id)
	if err != nil {
		return nil, err
	}
	bonding, err := s.bondingState(id)
	if err != nil {
		return nil, err
	}
	power, err := s.ValidatorPower(id)
	if err != nil {
		return nil, err
	}
	return &Status{IdentityKey: id, State: st, BondingState: bonding, VotingPower: power}, nil
}

// ValidatorInfo returns the definition, status and current rate of a
// validator, nil if the validator is unknown.
func (s *Staking) ValidatorInfo(id thor.Bytes32) (*Info, error) {
	v, err := s.registry.Validator(id)
	if err != nil || v == nil {
		return nil, err
	}
	status, err := s.ValidatorStatus(id)
	if err != nil {
		return nil, err
	}
	r, err := s.CurrentValidatorRate(id)
	if err != nil {
		return nil, err
	}
	return &Info{Validator: v, Status: *status, RateData: r}, nil
}

// ValidatorIdentityList lists the identity keys of all validators.
func (s *Staking) ValidatorIdentityList() ([]thor.Bytes32, error) {
	return s.registry.Identities()
}

// ValidatorList returns the info of every validator in identity key order.
func (s *Staking) ValidatorList() ([]*Info, error) {
	ids, err := s.registry.Identities()
	if err != nil {
		return nil, err
	}
	infos := make([]*Info, 0, len(ids))
	for _, id := range ids {
		info, err := s.ValidatorInfo(id)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, errors.Wrapf(ErrMissingInvariantRecord, "definition of validator %s", id.AbbrevString())
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// StateCounts returns the number of validators in each state.
func (s *Staking) StateCounts() (map[validator.State]int64, error) {
	ids, err := s.registry.Identities()
	if err != nil {
		return nil, err
	}
	counts := make(map[validator.State]int64)
	for _, id := range ids {
		st, err := s.validatorState(id)
		if err != nil {
			return nil, err
		}
		counts[st]++
	}
	return counts, nil
}
