// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis loads the initial staking state of a network.
package genesis

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/params"
	"github.com/vechain/stake/staking"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// CustomGenesis is the yaml form of a genesis.
type CustomGenesis struct {
	Name        string              `yaml:"name"`
	Params      *params.ChainParams `yaml:"params,omitempty"`
	Validators  []Validator         `yaml:"validators"`
	Allocations []Allocation        `yaml:"allocations"`
}

// Validator is a genesis validator definition.
type Validator struct {
	IdentityKey    thor.Bytes32        `yaml:"identity-key"`
	ConsensusKey   consensus.PublicKey `yaml:"consensus-key"`
	Name           string              `yaml:"name"`
	Website        string              `yaml:"website,omitempty"`
	Description    string              `yaml:"description,omitempty"`
	FundingStreams []FundingStream     `yaml:"funding-streams,omitempty"`
}

type FundingStream struct {
	Recipient thor.Address `yaml:"recipient"`
	RateBps   uint16       `yaml:"rate-bps"`
}

// Allocation credits the staking token, or the delegation token of
// Validator when set.
type Allocation struct {
	Address   thor.Address  `yaml:"address"`
	Amount    uint64        `yaml:"amount"`
	Validator *thor.Bytes32 `yaml:"validator,omitempty"`
}

// Genesis is a parsed genesis.
type Genesis struct {
	id     thor.Bytes32
	custom CustomGenesis
}

// Parse decodes a yaml genesis. Unset parameters take their defaults.
func Parse(data []byte) (*Genesis, error) {
	var custom CustomGenesis
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return New(custom)
}

// Load reads a yaml genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// New builds a genesis from its yaml form.
func New(custom CustomGenesis) (*Genesis, error) {
	if custom.Params == nil {
		cp := params.Default()
		custom.Params = &cp
	}
	if err := custom.Params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "genesis params")
	}
	if len(custom.Validators) == 0 {
		return nil, errors.New("genesis has no validator")
	}

	// the id covers the canonical encoding, defaults included
	enc, err := yaml.Marshal(&custom)
	if err != nil {
		return nil, err
	}
	return &Genesis{id: thor.Blake2b(enc), custom: custom}, nil
}

// ID identifies the genesis.
func (g *Genesis) ID() thor.Bytes32 { return g.id }

// Name returns the network name.
func (g *Genesis) Name() string { return g.custom.Name }

// Params returns the genesis chain parameters.
func (g *Genesis) Params() params.ChainParams { return *g.custom.Params }

// Spec returns the yaml form of the genesis.
func (g *Genesis) Custom() CustomGenesis { return g.custom }

// Staking converts the genesis into the input of staking.InitChain.
func (g *Genesis) Staking() *staking.Genesis {
	out := &staking.Genesis{Params: *g.custom.Params}
	for _, v := range g.custom.Validators {
		def := &validator.Validator{
			IdentityKey:  v.IdentityKey,
			ConsensusKey: v.ConsensusKey,
			Name:         v.Name,
			Website:      v.Website,
			Description:  v.Description,
			Enabled:      true,
		}
		for _, fs := range v.FundingStreams {
			def.FundingStreams = append(def.FundingStreams, validator.FundingStream{Recipient: fs.Recipient, RateBps: fs.RateBps})
		}
		out.Validators = append(out.Validators, def)
	}
	for _, a := range g.custom.Allocations {
		alloc := staking.Allocation{Address: a.Address, Amount: a.Amount}
		if a.Validator != nil {
			alloc.Validator = *a.Validator
		}
		out.Allocations = append(out.Allocations, alloc)
	}
	return out
}
