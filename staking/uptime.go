// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/validator"
)

// TrackUptime records, for every active validator, whether it signed the
// previous block, and jails those that missed too many blocks of their
// signing window.
func (s *Staking) TrackUptime(bctx *BlockContext, info consensus.CommitInfo) error {
	cp, err := s.params.Load()
	if err != nil {
		return err
	}

	signed := make(map[consensus.Address]bool, len(info.Votes))
	for _, vote := range info.Votes {
		signed[vote.Address] = vote.SignedLastBlock
	}

	return s.registry.Iterate(func(v *validator.Validator) error {
		id := v.IdentityKey
		st, err := s.validatorState(id)
		if err != nil {
			return err
		}
		if st != validator.Active {
			return nil
		}

		// the first block has no commit to vote on
		voted := bctx.Height == 1 || signed[consensus.AddressOf(v.ConsensusKey)]

		u, err := s.ValidatorUptime(id)
		if err != nil {
			return err
		}
		if err := u.MarkHeightAsSigned(bctx.Height, voted); err != nil {
			return errors.WithMessagef(err, "validator %s", id.AbbrevString())
		}

		missed := u.NumMissedBlocks()
		if !voted {
			bctx.Events.Append(event.MissedBlocks{Validator: id, Height: bctx.Height, Missed: missed})
			logger.Debug("validator missed block", "validator", id.AbbrevString(), "height", bctx.Height, "missed", missed)
		}
		if missed >= cp.MissedBlocksMaximum {
			logger.Info("jailing validator for downtime", "validator", id.AbbrevString(), "missed", missed, "window", cp.SignedBlocksWindowLen)
			return s.SetValidatorState(bctx, id, validator.Jailed)
		}
		return s.uptimes.Set(id, u)
	})
}
