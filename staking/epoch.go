// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"cmp"
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stake/params"
	"github.com/vechain/stake/staking/delegation"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/rate"
	"github.com/vechain/stake/staking/supply"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// EndEpoch closes the epoch: rates roll over, penalties and delegation
// changes are applied, commission is paid and the active set is chosen
// again.
func (s *Staking) EndEpoch(bctx *BlockContext, epoch thor.Epoch) error {
	cp, err := s.params.Load()
	if err != nil {
		return err
	}

	totals, err := s.consumeDelegationChanges(epoch)
	if err != nil {
		return err
	}

	currentBase, err := s.NextBaseRate()
	if err != nil {
		return err
	}
	nextBase, err := currentBase.Next(cp.BaseRewardRate)
	if err != nil {
		return errors.Wrap(err, "base rate rollover")
	}
	if err := s.currentBase.Set(currentBase); err != nil {
		return err
	}
	if err := s.nextBase.Set(nextBase); err != nil {
		return err
	}

	ids, err := s.registry.Identities()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.rollover(bctx, epoch, id, totals[id], currentBase, nextBase); err != nil {
			return errors.WithMessagef(err, "validator %s", id.AbbrevString())
		}
	}

	if err := s.ProcessValidatorUnbondings(bctx, epoch); err != nil {
		return err
	}
	if err := s.SetActiveAndInactiveValidators(bctx, cp); err != nil {
		return err
	}

	bctx.Events.Append(event.EpochEnded{Epoch: epoch})
	logger.Info("epoch ended", "epoch", epoch.Index, "height", bctx.Height, "validators", len(ids), "base", nextBase)
	return nil
}

// consumeDelegationChanges aggregates and removes the delegation changes
// recorded for every height of the epoch.
func (s *Staking) consumeDelegationChanges(epoch thor.Epoch) (map[thor.Bytes32]delegation.Totals, error) {
	all := make([]delegation.Changes, 0, epoch.Duration)
	for h := epoch.StartHeight; h <= epoch.EndHeight(); h++ {
		c, found, err := s.changes.Get(heightKey(h))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Wrapf(ErrMissingInvariantRecord, "delegation changes at height %d", h)
		}
		all = append(all, c)
		s.changes.Delete(heightKey(h))
	}
	return delegation.Aggregate(all)
}

func (s *Staking) rollover(
	bctx *BlockContext,
	epoch thor.Epoch,
	id thor.Bytes32,
	totals delegation.Totals,
	currentBase, nextBase rate.BaseRateData,
) error {
	v, err := s.registry.Validator(id)
	if err != nil {
		return err
	}
	st, err := s.validatorState(id)
	if err != nil {
		return err
	}
	oldNext, err := s.NextValidatorRate(id)
	if err != nil {
		return err
	}

	p, err := s.penalties.InEpoch(id, epoch.Index)
	if err != nil {
		return err
	}
	current := oldNext.Slash(p)
	next, err := current.Next(nextBase, v.FundingStreams, st)
	if err != nil {
		return err
	}
	if next.EpochIndex != epoch.Index+2 {
		return errors.Errorf("next rate epoch %d, want %d", next.EpochIndex, epoch.Index+2)
	}
	if err := s.currentRates.Set(id, current); err != nil {
		return err
	}
	if err := s.nextRates.Set(id, next); err != nil {
		return err
	}

	token := supply.DelegationToken(id)
	if amount, negative := totals.Delta(); amount > 0 {
		unbonded, err := current.UnbondedAmount(uint256.NewInt(amount))
		if err != nil {
			return err
		}
		if !unbonded.IsUint64() {
			return errors.Errorf("unbonded amount %v overflows", unbonded)
		}
		if negative {
			err = s.supply.UpdatePair(token, supply.Decrease(amount), supply.StakingToken, supply.Increase(unbonded.Uint64()))
		} else {
			err = s.supply.UpdatePair(token, supply.Increase(amount), supply.StakingToken, supply.Decrease(unbonded.Uint64()))
		}
		if err != nil {
			return err
		}
	}

	delegationTokens, err := s.supply.TokenSupply(token)
	if err != nil {
		return err
	}
	pool := uint256.NewInt(delegationTokens)
	power, err := current.VotingPower(pool, currentBase)
	if err != nil {
		return err
	}
	if err := s.SetValidatorPower(bctx, id, power.ToBig()); err != nil {
		return err
	}
	logger.Debug("validator rate rolled over", "validator", id.AbbrevString(), "current", current, "next", next, "power", power)

	// commission is owed for the epoch that just ended
	if st == validator.Active {
		if err := s.payCommission(bctx, epoch, v, pool, currentBase, nextBase); err != nil {
			return err
		}
	}
	return nil
}

func (s *Staking) payCommission(
	bctx *BlockContext,
	epoch thor.Epoch,
	v *validator.Validator,
	pool *uint256.Int,
	currentBase, nextBase rate.BaseRateData,
) error {
	for _, fs := range v.FundingStreams {
		amount, err := rate.RewardAmount(fs, pool, nextBase, currentBase)
		if err != nil {
			return err
		}
		if !amount.IsUint64() {
			return errors.Errorf("commission %v overflows", amount)
		}
		req := supply.MintRequest{
			Amount:    amount.Uint64(),
			Asset:     supply.StakingToken,
			Recipient: fs.Recipient,
			Source:    supply.Source{Kind: supply.SourceFundingStreamReward, EpochIndex: epoch.Index},
		}
		if req.Amount == 0 {
			continue
		}
		if err := s.minter.Mint(req); err != nil {
			return errors.Wrap(err, "mint commission")
		}
		bctx.Mints = append(bctx.Mints, req)
		bctx.Events.Append(event.CommissionPaid{
			Validator: v.IdentityKey,
			Recipient: fs.Recipient,
			Epoch:     epoch.Index,
			Amount:    req.Amount,
		})
	}
	return nil
}

// ProcessValidatorUnbondings releases every pool whose unbonding period
// ends at or before the epoch.
func (s *Staking) ProcessValidatorUnbondings(bctx *BlockContext, epoch thor.Epoch) error {
	ids, err := s.registry.Identities()
	if err != nil {
		return err
	}
	for _, id := range ids {
		b, err := s.bondingState(id)
		if err != nil {
			return err
		}
		if b.Kind == validator.Unbonding && b.UnbondingEpoch <= epoch.Index {
			if err := s.setBondingState(bctx, id, validator.UnbondedState()); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetActiveAndInactiveValidators chooses the active set among the active
// and inactive validators: the ActiveValidatorLimit validators with the
// highest nonzero power. Equal powers keep identity key order.
func (s *Staking) SetActiveAndInactiveValidators(bctx *BlockContext, cp *params.ChainParams) error {
	type candidate struct {
		id    thor.Bytes32
		power uint64
	}

	ids, err := s.registry.Identities()
	if err != nil {
		return err
	}
	var (
		ranked []candidate
		zero   []thor.Bytes32
	)
	for _, id := range ids {
		st, err := s.validatorState(id)
		if err != nil {
			return err
		}
		if st != validator.Active && st != validator.Inactive {
			continue
		}
		power, err := s.ValidatorPower(id)
		if err != nil {
			return err
		}
		if power == 0 {
			zero = append(zero, id)
		} else {
			ranked = append(ranked, candidate{id, power})
		}
	}

	slices.SortStableFunc(ranked, func(a, b candidate) int {
		return cmp.Compare(b.power, a.power)
	})
	limit := min(uint64(len(ranked)), cp.ActiveValidatorLimit)

	// promotions first, then the rest and the zero power validators
	for _, c := range ranked[:limit] {
		if err := s.SetValidatorState(bctx, c.id, validator.Active); err != nil {
			return err
		}
	}
	for _, c := range ranked[limit:] {
		zero = append(zero, c.id)
	}
	for _, id := range zero {
		if err := s.SetValidatorState(bctx, id, validator.Inactive); err != nil {
			return err
		}
	}
	return nil
}
