// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/params"
	"github.com/vechain/stake/staking/delegation"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/rate"
	"github.com/vechain/stake/staking/supply"
	"github.com/vechain/stake/staking/uptime"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// Allocation credits tokens to an address at genesis. A zero Validator
// allocates the staking token, otherwise the delegation token of that
// validator.
type Allocation struct {
	Address   thor.Address
	Amount    uint64
	Validator thor.Bytes32
}

// Genesis is the initial staking state.
type Genesis struct {
	Params      params.ChainParams
	Validators  []*validator.Validator
	Allocations []Allocation
}

// InitChain writes the genesis state. Genesis validators start active and
// bonded, with the power of their genesis delegation pool.
func (s *Staking) InitChain(bctx *BlockContext, g *Genesis) error {
	if err := s.params.Store(&g.Params); err != nil {
		return errors.WithMessage(err, "genesis params")
	}

	// no reward accrues before the first epoch boundary
	currentBase := rate.GenesisBaseRate(bctx.Epoch.Index)
	nextBase := rate.GenesisBaseRate(bctx.Epoch.Index + 1)
	if err := s.currentBase.Set(currentBase); err != nil {
		return err
	}
	if err := s.nextBase.Set(nextBase); err != nil {
		return err
	}

	for _, v := range g.Validators {
		if err := s.register(v); err != nil {
			return err
		}
	}

	for _, a := range g.Allocations {
		asset := supply.StakingToken
		if !a.Validator.IsZero() {
			v, err := s.registry.Validator(a.Validator)
			if err != nil {
				return err
			}
			if v == nil {
				return errors.Errorf("allocation to unknown validator %s", a.Validator)
			}
			asset = supply.DelegationToken(a.Validator)
		}
		if err := s.supply.Mint(supply.MintRequest{
			Amount:    a.Amount,
			Asset:     asset,
			Recipient: a.Address,
			Source:    supply.Source{Kind: supply.SourceGenesis},
		}); err != nil {
			return errors.WithMessage(err, "genesis allocation")
		}
	}

	for _, v := range g.Validators {
		id := v.IdentityKey
		current := rate.GenesisRate(id, currentBase.EpochIndex)
		next := rate.GenesisRate(id, nextBase.EpochIndex)
		pool, err := s.supply.TokenSupply(supply.DelegationToken(id))
		if err != nil {
			return err
		}
		power, err := powerOf(current, pool, currentBase)
		if err != nil {
			return err
		}

		if err := s.currentRates.Set(id, current); err != nil {
			return err
		}
		if err := s.nextRates.Set(id, next); err != nil {
			return err
		}
		if err := s.SetValidatorPower(bctx, id, power); err != nil {
			return err
		}
		if err := s.states.Set(id, validator.Active); err != nil {
			return err
		}
		if err := s.setBondingState(bctx, id, validator.BondedState()); err != nil {
			return err
		}
		if err := s.uptimes.Set(id, uptime.New(bctx.Height, g.Params.SignedBlocksWindowLen)); err != nil {
			return err
		}
		bctx.Events.Append(event.ValidatorAdded{Validator: id, ConsensusKey: v.ConsensusKey})
		logger.Info("genesis validator", "validator", id.AbbrevString(), "name", v.Name, "power", power)
	}

	// the genesis height is the first height of epoch 0
	if err := s.changes.Set(heightKey(bctx.Height), delegation.Changes{}); err != nil {
		return err
	}
	return s.BuildValidatorUpdates(bctx)
}

// register validates a new validator definition and indexes it.
func (s *Staking) register(v *validator.Validator) error {
	if err := v.Validate(); err != nil {
		return err
	}
	existing, err := s.registry.Validator(v.IdentityKey)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Errorf("validator %s already exists", v.IdentityKey.AbbrevString())
	}
	if err := s.checkConsensusKey(v); err != nil {
		return err
	}
	return s.registry.Register(v)
}

// checkConsensusKey rejects a consensus key owned by another validator.
func (s *Staking) checkConsensusKey(v *validator.Validator) error {
	owner, found, err := s.registry.IdentityByConsensusKey(v.ConsensusKey)
	if err != nil {
		return err
	}
	if found && owner != v.IdentityKey {
		return errors.Errorf("consensus key %s is used by validator %s", v.ConsensusKey, owner.AbbrevString())
	}
	return nil
}

// AddValidator registers a validator after genesis. It starts inactive and
// unbonded with an empty pool and the rates of the current epoch.
func (s *Staking) AddValidator(bctx *BlockContext, v *validator.Validator) error {
	currentBase, err := s.CurrentBaseRate()
	if err != nil {
		return err
	}
	nextBase, err := s.NextBaseRate()
	if err != nil {
		return err
	}
	cp, err := s.params.Load()
	if err != nil {
		return err
	}
	if err := s.register(v); err != nil {
		return err
	}

	id := v.IdentityKey
	current := rate.GenesisRate(id, currentBase.EpochIndex)
	next, err := current.Next(nextBase, v.FundingStreams, validator.Inactive)
	if err != nil {
		return err
	}
	if err := s.currentRates.Set(id, current); err != nil {
		return err
	}
	if err := s.nextRates.Set(id, next); err != nil {
		return err
	}
	if err := s.powers.Set(id, 0); err != nil {
		return err
	}
	if err := s.states.Set(id, validator.Inactive); err != nil {
		return err
	}
	if err := s.setBondingState(bctx, id, validator.UnbondedState()); err != nil {
		return err
	}
	if err := s.uptimes.Set(id, uptime.New(bctx.Height, cp.SignedBlocksWindowLen)); err != nil {
		return err
	}
	bctx.Events.Append(event.ValidatorAdded{Validator: id, ConsensusKey: v.ConsensusKey})
	logger.Info("validator added", "validator", id.AbbrevString(), "name", v.Name, "height", bctx.Height)
	return nil
}

// UpdateValidator applies a new definition of an existing validator.
// Enabling a disabled or jailed validator makes it inactive, disabling moves
// it to disabled. Definitions of a tombstoned validator are ignored.
// Rates are left alone: new funding streams take effect at the next epoch
// rollover.
func (s *Staking) UpdateValidator(bctx *BlockContext, v *validator.Validator) error {
	if err := v.Validate(); err != nil {
		return err
	}
	existing, err := s.registry.Validator(v.IdentityKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.Errorf("unknown validator %s", v.IdentityKey.AbbrevString())
	}
	if v.Sequence <= existing.Sequence {
		return errors.Errorf("stale definition: sequence %d, have %d", v.Sequence, existing.Sequence)
	}

	id := v.IdentityKey
	st, err := s.validatorState(id)
	if err != nil {
		return err
	}
	if st == validator.Tombstoned {
		logger.Warn("ignoring definition of tombstoned validator", "validator", id.AbbrevString())
		return nil
	}
	if err := s.checkConsensusKey(v); err != nil {
		return err
	}
	if err := s.registry.Register(v); err != nil {
		return err
	}

	switch {
	case v.Enabled && (st == validator.Disabled || st == validator.Jailed):
		return s.SetValidatorState(bctx, id, validator.Inactive)
	case !v.Enabled && st != validator.Disabled:
		return s.SetValidatorState(bctx, id, validator.Disabled)
	}
	return nil
}

// ProcessEvidence tombstones the validator behind byzantine evidence.
func (s *Staking) ProcessEvidence(bctx *BlockContext, ev consensus.Evidence) error {
	id, found, err := s.registry.IdentityByAddress(ev.Address)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrUnknownValidatorEvidence, "address %s", ev.Address)
	}
	st, err := s.validatorState(id)
	if err != nil {
		return err
	}
	if st == validator.Tombstoned {
		logger.Warn("evidence for tombstoned validator", "validator", id.AbbrevString(), "height", ev.Height)
		return nil
	}
	logger.Info("processing evidence", "validator", id.AbbrevString(), "type", ev.Type, "height", ev.Height)
	return s.SetValidatorState(bctx, id, validator.Tombstoned)
}

// BeginBlock handles byzantine evidence and the votes of the last commit.
func (s *Staking) BeginBlock(bctx *BlockContext, evidence []consensus.Evidence, info consensus.CommitInfo) error {
	for _, ev := range evidence {
		if err := s.ProcessEvidence(bctx, ev); err != nil {
			return err
		}
	}
	return s.TrackUptime(bctx, info)
}

// EndBlock stores the delegation changes of the block, closes the epoch at
// its last height and builds the validator updates.
func (s *Staking) EndBlock(bctx *BlockContext) error {
	if err := s.changes.Set(heightKey(bctx.Height), bctx.DelegationChanges); err != nil {
		return err
	}
	if bctx.Epoch.IsEpochEnd(bctx.Height) {
		if err := s.EndEpoch(bctx, bctx.Epoch); err != nil {
			return errors.WithMessagef(err, "end epoch %d", bctx.Epoch.Index)
		}
	}
	return s.BuildValidatorUpdates(bctx)
}

// Delegate checks a delegation against the next rate of the validator and
// queues it in the block.
func (s *Staking) Delegate(bctx *BlockContext, d delegation.Delegate) error {
	if err := s.checkDelegationTarget(bctx, d.Validator, d.EpochIndex, true); err != nil {
		return err
	}
	next, err := s.NextValidatorRate(d.Validator)
	if err != nil {
		return err
	}
	want, err := next.DelegationAmount(uint256.NewInt(d.UnbondedAmount))
	if err != nil {
		return err
	}
	if !want.IsUint64() || want.Uint64() != d.DelegationAmount {
		return errors.Errorf("delegation amount %d, want %v", d.DelegationAmount, want)
	}
	bctx.DelegationChanges.Delegations = append(bctx.DelegationChanges.Delegations, d)
	return nil
}

// Undelegate checks an undelegation against the next rate of the validator
// and queues it in the block.
func (s *Staking) Undelegate(bctx *BlockContext, u delegation.Undelegate) error {
	if err := s.checkDelegationTarget(bctx, u.Validator, u.EpochIndex, false); err != nil {
		return err
	}
	next, err := s.NextValidatorRate(u.Validator)
	if err != nil {
		return err
	}
	want, err := next.UnbondedAmount(uint256.NewInt(u.DelegationAmount))
	if err != nil {
		return err
	}
	if !want.IsUint64() || want.Uint64() != u.UnbondedAmount {
		return errors.Errorf("unbonded amount %d, want %v", u.UnbondedAmount, want)
	}
	bctx.DelegationChanges.Undelegations = append(bctx.DelegationChanges.Undelegations, u)
	return nil
}

func (s *Staking) checkDelegationTarget(bctx *BlockContext, id thor.Bytes32, epoch uint64, delegate bool) error {
	if epoch != bctx.Epoch.Index {
		return errors.Errorf("epoch %d, current is %d", epoch, bctx.Epoch.Index)
	}
	v, err := s.registry.Validator(id)
	if err != nil {
		return err
	}
	if v == nil {
		return errors.Errorf("unknown validator %s", id.AbbrevString())
	}
	if !delegate {
		return nil
	}
	st, err := s.validatorState(id)
	if err != nil {
		return err
	}
	if st == validator.Tombstoned {
		return errors.Errorf("validator %s is tombstoned", id.AbbrevString())
	}
	return nil
}

// powerOf converts a pool into voting power.
func powerOf(r rate.RateData, pool uint64, base rate.BaseRateData) (*big.Int, error) {
	p, err := r.VotingPower(uint256.NewInt(pool), base)
	if err != nil {
		return nil, err
	}
	return p.ToBig(), nil
}
