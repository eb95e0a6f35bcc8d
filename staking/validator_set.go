// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"slices"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking/validator"
)

// BuildValidatorUpdates computes the full power list for the consensus
// engine. Validators that are not active count as zero; zero entries are
// kept only for keys advertised previously, so the engine drops them.
func (s *Staking) BuildValidatorUpdates(bctx *BlockContext) error {
	prev, _, err := s.consensusKeys.Get()
	if err != nil {
		return err
	}
	advertised := make(map[consensus.PublicKey]bool, len(prev))
	for _, ck := range prev {
		advertised[ck] = true
	}

	powers := make(map[consensus.PublicKey]uint64)
	err = s.registry.Iterate(func(v *validator.Validator) error {
		st, err := s.validatorState(v.IdentityKey)
		if err != nil {
			return err
		}
		var power uint64
		if st == validator.Active {
			if power, err = s.ValidatorPower(v.IdentityKey); err != nil {
				return err
			}
		}
		if power == 0 && !advertised[v.ConsensusKey] {
			return nil
		}
		powers[v.ConsensusKey] = power
		return nil
	})
	if err != nil {
		return err
	}
	for _, ck := range prev {
		if _, ok := powers[ck]; !ok {
			powers[ck] = 0
		}
	}

	updates := make([]consensus.ValidatorUpdate, 0, len(powers))
	var current []consensus.PublicKey
	for ck, power := range powers {
		updates = append(updates, consensus.ValidatorUpdate{PubKey: ck, Power: int64(power)})
		if power > 0 {
			current = append(current, ck)
		}
	}
	slices.SortFunc(updates, func(a, b consensus.ValidatorUpdate) int {
		return a.PubKey.Compare(b.PubKey)
	})
	slices.SortFunc(current, consensus.PublicKey.Compare)

	if err := s.consensusKeys.Set(current); err != nil {
		return err
	}
	bctx.ValidatorUpdates = updates
	return nil
}
