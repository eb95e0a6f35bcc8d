// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking runs the validator state machine and the epoch
// economics of the chain.
package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/log"
	"github.com/vechain/stake/params"
	"github.com/vechain/stake/staking/delegation"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/penalty"
	"github.com/vechain/stake/staking/rate"
	"github.com/vechain/stake/staking/registry"
	"github.com/vechain/stake/staking/supply"
	"github.com/vechain/stake/staking/uptime"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

// MaxVotingPower is the largest power the consensus engine accepts.
const MaxVotingPower = 1_152_921_504_606_846_975

var (
	logger = log.WithContext("pkg", "staking")

	maxVotingPower = new(big.Int).SetUint64(MaxVotingPower)
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staking is bound to the state of one block.
type Staking struct {
	params    *params.Params
	registry  *registry.Registry
	penalties *penalty.Ledger
	supply    *supply.Ledger
	minter    supply.Minter

	states       *state.Mapping[thor.Bytes32, validator.State]
	bondings     *state.Mapping[thor.Bytes32, validator.BondingState]
	powers       *state.Mapping[thor.Bytes32, uint64]
	currentRates *state.Mapping[thor.Bytes32, rate.RateData]
	nextRates    *state.Mapping[thor.Bytes32, rate.RateData]
	uptimes      *state.Mapping[thor.Bytes32, uptime.Uptime]
	changes      *state.Mapping[heightKey, delegation.Changes]

	currentBase   *state.Slot[rate.BaseRateData]
	nextBase      *state.Slot[rate.BaseRateData]
	consensusKeys *state.Slot[[]consensus.PublicKey]
}

// New creates a staking instance over the state. Rewards are minted into
// the supply ledger of the same state.
func New(st *state.State) *Staking {
	ledger := supply.NewLedger(st)
	return &Staking{
		params:    params.New(st),
		registry:  registry.New(st),
		penalties: penalty.NewLedger(st),
		supply:    ledger,
		minter:    ledger,

		states:       state.NewMapping[thor.Bytes32, validator.State](st, prefixState),
		bondings:     state.NewMapping[thor.Bytes32, validator.BondingState](st, prefixBonding),
		powers:       state.NewMapping[thor.Bytes32, uint64](st, prefixPower),
		currentRates: state.NewMapping[thor.Bytes32, rate.RateData](st, prefixCurrentRate),
		nextRates:    state.NewMapping[thor.Bytes32, rate.RateData](st, prefixNextRate),
		uptimes:      state.NewMapping[thor.Bytes32, uptime.Uptime](st, prefixUptime),
		changes:      state.NewMapping[heightKey, delegation.Changes](st, prefixChanges),

		currentBase:   state.NewSlot[rate.BaseRateData](st, slotCurrentBase),
		nextBase:      state.NewSlot[rate.BaseRateData](st, slotNextBase),
		consensusKeys: state.NewSlot[[]consensus.PublicKey](st, slotConsensusKeys),
	}
}

// WithMinter replaces the collaborator that receives commission mints.
func (s *Staking) WithMinter(m supply.Minter) *Staking {
	s.minter = m
	return s
}

// Params returns the chain parameters binding.
func (s *Staking) Params() *params.Params { return s.params }

// Registry returns the consensus key registry.
func (s *Staking) Registry() *registry.Registry { return s.registry }

// Penalties returns the penalty ledger.
func (s *Staking) Penalties() *penalty.Ledger { return s.penalties }

// Supply returns the token supply ledger.
func (s *Staking) Supply() *supply.Ledger { return s.supply }

//
// Per-validator records. A known validator without one of them is a
// corrupted state.
//

func (s *Staking) validatorState(id thor.Bytes32) (validator.State, error) {
	st, found, err := s.states.Get(id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, missing("state", id)
	}
	return st, nil
}

func (s *Staking) bondingState(id thor.Bytes32) (validator.BondingState, error) {
	b, found, err := s.bondings.Get(id)
	if err != nil {
		return validator.BondingState{}, err
	}
	if !found {
		return validator.BondingState{}, missing("bonding state", id)
	}
	return b, nil
}

func (s *Staking) setBondingState(bctx *BlockContext, id thor.Bytes32, to validator.BondingState) error {
	from, found, err := s.bondings.Get(id)
	if err != nil {
		return err
	}
	if found && from == to {
		return nil
	}
	if err := s.bondings.Set(id, to); err != nil {
		return err
	}
	bctx.Events.Append(event.BondingChanged{Validator: id, From: from, To: to})
	logger.Debug("bonding state changed", "validator", id.AbbrevString(), "from", from, "to", to)
	return nil
}

// ValidatorPower returns the recorded voting power.
func (s *Staking) ValidatorPower(id thor.Bytes32) (uint64, error) {
	p, found, err := s.powers.Get(id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, missing("power", id)
	}
	return p, nil
}

// SetValidatorPower records the voting power of a validator. Values outside
// [0, MaxVotingPower] are rejected and nothing is written.
func (s *Staking) SetValidatorPower(bctx *BlockContext, id thor.Bytes32, power *big.Int) error {
	if power == nil || power.Sign() < 0 || power.Cmp(maxVotingPower) > 0 {
		return errors.Wrapf(ErrOutOfBoundsVotingPower, "validator %s power %v", id.AbbrevString(), power)
	}
	p := power.Uint64()
	old, found, err := s.powers.Get(id)
	if err != nil {
		return err
	}
	if found && old == p {
		return nil
	}
	if err := s.powers.Set(id, p); err != nil {
		return err
	}
	bctx.Events.Append(event.PowerChanged{Validator: id, Power: p})
	return nil
}

// CurrentValidatorRate returns the rate of the validator in the current epoch.
func (s *Staking) CurrentValidatorRate(id thor.Bytes32) (rate.RateData, error) {
	r, found, err := s.currentRates.Get(id)
	if err != nil {
		return rate.RateData{}, err
	}
	if !found {
		return rate.RateData{}, missing("current rate", id)
	}
	return r, nil
}

// NextValidatorRate returns the rate of the validator in the next epoch.
func (s *Staking) NextValidatorRate(id thor.Bytes32) (rate.RateData, error) {
	r, found, err := s.nextRates.Get(id)
	if err != nil {
		return rate.RateData{}, err
	}
	if !found {
		return rate.RateData{}, missing("next rate", id)
	}
	return r, nil
}

// CurrentBaseRate returns the base rate of the current epoch.
func (s *Staking) CurrentBaseRate() (rate.BaseRateData, error) {
	r, found, err := s.currentBase.Get()
	if err != nil {
		return rate.BaseRateData{}, err
	}
	if !found {
		return rate.BaseRateData{}, errors.Wrap(ErrMissingInvariantRecord, "current base rate")
	}
	return r, nil
}

// NextBaseRate returns the base rate of the next epoch.
func (s *Staking) NextBaseRate() (rate.BaseRateData, error) {
	r, found, err := s.nextBase.Get()
	if err != nil {
		return rate.BaseRateData{}, err
	}
	if !found {
		return rate.BaseRateData{}, errors.Wrap(ErrMissingInvariantRecord, "next base rate")
	}
	return r, nil
}

// ValidatorUptime returns the signing window of a validator.
func (s *Staking) ValidatorUptime(id thor.Bytes32) (uptime.Uptime, error) {
	u, found, err := s.uptimes.Get(id)
	if err != nil {
		return uptime.Uptime{}, err
	}
	if !found {
		return uptime.Uptime{}, missing("uptime", id)
	}
	return u, nil
}

// UnbondingEndEpochFor returns the epoch at which the pool of the validator
// would finish unbonding if it started unbonding in currentEpoch. An
// earlier unbonding already in progress is never extended.
func (s *Staking) UnbondingEndEpochFor(id thor.Bytes32, currentEpoch uint64) (uint64, error) {
	cp, err := s.params.Load()
	if err != nil {
		return 0, err
	}
	bonding, err := s.bondingState(id)
	if err != nil {
		return 0, err
	}
	end := currentEpoch + cp.UnbondingEpochs
	if bonding.Kind == validator.Unbonding && bonding.UnbondingEpoch < end {
		end = bonding.UnbondingEpoch
	}
	return end, nil
}
