// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

type FundingStream struct {
	Recipient thor.Address `json:"recipient"`
	RateBps   uint16       `json:"rateBps"`
}

type Rate struct {
	EpochIndex   uint64                `json:"epochIndex"`
	RewardRate   uint64                `json:"rewardRate"`
	ExchangeRate *math.HexOrDecimal256 `json:"exchangeRate"`
}

type Bonding struct {
	Kind string `json:"kind"`
	// UnbondingEpoch is set while unbonding.
	UnbondingEpoch *uint64 `json:"unbondingEpoch,omitempty"`
}

// Validator is the api view of a validator.
type Validator struct {
	IdentityKey    thor.Bytes32        `json:"identityKey"`
	ConsensusKey   consensus.PublicKey `json:"consensusKey"`
	Name           string              `json:"name"`
	Website        string              `json:"website,omitempty"`
	Description    string              `json:"description,omitempty"`
	Enabled        bool                `json:"enabled"`
	Sequence       uint32              `json:"sequence"`
	FundingStreams []FundingStream     `json:"fundingStreams"`
	State          string              `json:"state"`
	Bonding        Bonding             `json:"bonding"`
	VotingPower    uint64              `json:"votingPower"`
	Rate           Rate                `json:"rate"`
}

func convertValidator(info *staking.Info) *Validator {
	v := info.Validator
	out := &Validator{
		IdentityKey:    v.IdentityKey,
		ConsensusKey:   v.ConsensusKey,
		Name:           v.Name,
		Website:        v.Website,
		Description:    v.Description,
		Enabled:        v.Enabled,
		Sequence:       v.Sequence,
		FundingStreams: make([]FundingStream, 0, len(v.FundingStreams)),
		State:          info.Status.State.String(),
		Bonding:        Bonding{Kind: info.Status.BondingState.Kind.String()},
		VotingPower:    info.Status.VotingPower,
		Rate: Rate{
			EpochIndex:   info.RateData.EpochIndex,
			RewardRate:   info.RateData.RewardRate,
			ExchangeRate: (*math.HexOrDecimal256)(info.RateData.ExchangeRate.ToBig()),
		},
	}
	for _, fs := range v.FundingStreams {
		out.FundingStreams = append(out.FundingStreams, FundingStream{Recipient: fs.Recipient, RateBps: fs.RateBps})
	}
	if b := info.Status.BondingState; b.Kind == validator.Unbonding {
		epoch := b.UnbondingEpoch
		out.Bonding.UnbondingEpoch = &epoch
	}
	return out
}
