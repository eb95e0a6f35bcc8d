// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry maps validators between their identity key, their
// consensus key and the consensus address derived from it.
package registry

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

type Registry struct {
	validators *state.Mapping[thor.Bytes32, validator.Validator]
	identities *state.Mapping[consensus.PublicKey, thor.Bytes32]
	keys       *state.Mapping[consensus.Address, consensus.PublicKey]
}

func New(st *state.State) *Registry {
	return &Registry{
		validators: state.NewMapping[thor.Bytes32, validator.Validator](st, "validator/def/"),
		identities: state.NewMapping[consensus.PublicKey, thor.Bytes32](st, "validator/ck/"),
		keys:       state.NewMapping[consensus.Address, consensus.PublicKey](st, "validator/addr/"),
	}
}

// Register stores the validator definition and indexes its consensus key.
// Mappings of a previous consensus key are kept, so evidence against a
// rotated key still resolves to the validator.
func (r *Registry) Register(v *validator.Validator) error {
	if err := r.validators.Set(v.IdentityKey, *v); err != nil {
		return errors.Wrap(err, "failed to set validator")
	}
	if err := r.identities.Set(v.ConsensusKey, v.IdentityKey); err != nil {
		return errors.Wrap(err, "failed to index consensus key")
	}
	if err := r.keys.Set(consensus.AddressOf(v.ConsensusKey), v.ConsensusKey); err != nil {
		return errors.Wrap(err, "failed to index consensus address")
	}
	return nil
}

// Validator returns the definition of a validator, nil if unknown.
func (r *Registry) Validator(id thor.Bytes32) (*validator.Validator, error) {
	v, found, err := r.validators.Get(id)
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

// IdentityByConsensusKey resolves a consensus key.
func (r *Registry) IdentityByConsensusKey(ck consensus.PublicKey) (thor.Bytes32, bool, error) {
	return r.identities.Get(ck)
}

// ConsensusKeyByAddress resolves a consensus address.
func (r *Registry) ConsensusKeyByAddress(addr consensus.Address) (consensus.PublicKey, bool, error) {
	return r.keys.Get(addr)
}

// IdentityByAddress resolves a consensus address all the way to the identity key.
func (r *Registry) IdentityByAddress(addr consensus.Address) (thor.Bytes32, bool, error) {
	ck, found, err := r.ConsensusKeyByAddress(addr)
	if err != nil || !found {
		return thor.Bytes32{}, false, err
	}
	return r.IdentityByConsensusKey(ck)
}

// Iterate visits validators in ascending identity key order.
func (r *Registry) Iterate(fn func(v *validator.Validator) error) error {
	return r.validators.Iterate(nil, func(_ []byte, v validator.Validator) error {
		return fn(&v)
	})
}

// Identities lists the identity keys of all validators in ascending order.
func (r *Registry) Identities() ([]thor.Bytes32, error) {
	var ids []thor.Bytes32
	err := r.validators.Iterate(nil, func(key []byte, _ validator.Validator) error {
		ids = append(ids, thor.BytesToBytes32(key))
		return nil
	})
	return ids, err
}
