// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

// Keys of the chain parameters stored in state.
var (
	KeyActiveValidatorLimit       = thor.BytesToBytes32([]byte("active-validator-limit"))
	KeySlashingPenaltyDowntime    = thor.BytesToBytes32([]byte("slashing-penalty-downtime"))
	KeySlashingPenaltyMisbehavior = thor.BytesToBytes32([]byte("slashing-penalty-misbehavior"))
	KeyUnbondingEpochs            = thor.BytesToBytes32([]byte("unbonding-epochs"))
	KeyMissedBlocksMaximum        = thor.BytesToBytes32([]byte("missed-blocks-maximum"))
	KeySignedBlocksWindowLen      = thor.BytesToBytes32([]byte("signed-blocks-window-len"))
	KeyBaseRewardRate             = thor.BytesToBytes32([]byte("base-reward-rate"))
	KeyEpochDuration              = thor.BytesToBytes32([]byte("epoch-duration"))
)

// ErrParamNotSet is returned when a parameter has never been stored.
var ErrParamNotSet = errors.New("chain parameter not set")

// Params binds the chain parameters stored in state.
type Params struct {
	values *state.Mapping[thor.Bytes32, *big.Int]
}

func New(st *state.State) *Params {
	return &Params{state.NewMapping[thor.Bytes32, *big.Int](st, "params/")}
}

// Get returns the value of the parameter.
func (p *Params) Get(key thor.Bytes32) (*big.Int, error) {
	v, found, err := p.values.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrParamNotSet, "key %s", string(trimKey(key)))
	}
	return v, nil
}

// Set stores the value of the parameter.
func (p *Params) Set(key thor.Bytes32, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return errors.Errorf("invalid value %v for %s", value, string(trimKey(key)))
	}
	return p.values.Set(key, value)
}

// Load reads the full parameter set.
func (p *Params) Load() (*ChainParams, error) {
	var c ChainParams
	for _, f := range c.fields() {
		v, err := p.Get(f.key)
		if err != nil {
			return nil, err
		}
		if !v.IsUint64() {
			return nil, errors.Errorf("%s overflows uint64", string(trimKey(f.key)))
		}
		*f.ptr = v.Uint64()
	}
	return &c, nil
}

// Store validates and writes the full parameter set.
func (p *Params) Store(c *ChainParams) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, f := range c.fields() {
		if err := p.Set(f.key, new(big.Int).SetUint64(*f.ptr)); err != nil {
			return err
		}
	}
	return nil
}

func trimKey(key thor.Bytes32) []byte {
	for i, b := range key {
		if b != 0 {
			return key[i:]
		}
	}
	return nil
}
