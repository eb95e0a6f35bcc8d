// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/pkg/errors"

	"github.com/vechain/stake/thor"
)

// FixedPointOne is 1.0 in the fixed-point representation used by rates and
// penalties.
const FixedPointOne = 1_0000_0000

// ChainParams is the configuration consumed by the staking engine.
// Rates and penalties are fractions of FixedPointOne.
type ChainParams struct {
	ActiveValidatorLimit       uint64 `yaml:"active-validator-limit"`
	SlashingPenaltyDowntime    uint64 `yaml:"slashing-penalty-downtime"`
	SlashingPenaltyMisbehavior uint64 `yaml:"slashing-penalty-misbehavior"`
	UnbondingEpochs            uint64 `yaml:"unbonding-epochs"`
	MissedBlocksMaximum        uint64 `yaml:"missed-blocks-maximum"`
	SignedBlocksWindowLen      uint64 `yaml:"signed-blocks-window-len"`
	BaseRewardRate             uint64 `yaml:"base-reward-rate"`
	EpochDuration              uint64 `yaml:"epoch-duration"`
}

// Default returns the default chain parameters.
func Default() ChainParams {
	return ChainParams{
		ActiveValidatorLimit:       80,
		SlashingPenaltyDowntime:    1_0000,    // 0.01%
		SlashingPenaltyMisbehavior: 1000_0000, // 10%
		UnbondingEpochs:            2,
		MissedBlocksMaximum:        9500,
		SignedBlocksWindowLen:      10000,
		BaseRewardRate:             3_0000,
		EpochDuration:              719,
	}
}

// Validate checks the parameters for consistency.
func (c *ChainParams) Validate() error {
	switch {
	case c.ActiveValidatorLimit == 0:
		return errors.New("active validator limit must be positive")
	case c.SignedBlocksWindowLen == 0:
		return errors.New("signed blocks window must be positive")
	case c.MissedBlocksMaximum == 0 || c.MissedBlocksMaximum > c.SignedBlocksWindowLen:
		return errors.Errorf("missed blocks maximum %d out of range (0, %d]", c.MissedBlocksMaximum, c.SignedBlocksWindowLen)
	case c.SlashingPenaltyDowntime > FixedPointOne:
		return errors.New("downtime penalty exceeds 100%")
	case c.SlashingPenaltyMisbehavior > FixedPointOne:
		return errors.New("misbehavior penalty exceeds 100%")
	case c.EpochDuration == 0:
		return errors.New("epoch duration must be positive")
	}
	return nil
}

type field struct {
	key thor.Bytes32
	ptr *uint64
}

func (c *ChainParams) fields() []field {
	return []field{
		{KeyActiveValidatorLimit, &c.ActiveValidatorLimit},
		{KeySlashingPenaltyDowntime, &c.SlashingPenaltyDowntime},
		{KeySlashingPenaltyMisbehavior, &c.SlashingPenaltyMisbehavior},
		{KeyUnbondingEpochs, &c.UnbondingEpochs},
		{KeyMissedBlocksMaximum, &c.MissedBlocksMaximum},
		{KeySignedBlocksWindowLen, &c.SignedBlocksWindowLen},
		{KeyBaseRewardRate, &c.BaseRewardRate},
		{KeyEpochDuration, &c.EpochDuration},
	}
}
