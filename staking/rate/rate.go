// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rate implements the fixed-point exchange rate arithmetic between
// delegation tokens and the staking token. 1.0 is represented as One.
package rate

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stake/staking/penalty"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

// One is 1.0 in fixed point.
const One = 1_0000_0000

var (
	u256One = uint256.NewInt(One)

	// ErrOverflow is returned when a fixed-point result exceeds 256 bits.
	ErrOverflow = errors.New("fixed-point overflow")
)

// mulDiv returns floor(x * y / d).
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// BaseRateData is the chain-wide reward and exchange rate of an epoch.
type BaseRateData struct {
	EpochIndex       uint64
	BaseRewardRate   uint64
	BaseExchangeRate *uint256.Int
}

// GenesisBaseRate returns the base rate of the given epoch at genesis.
func GenesisBaseRate(epoch uint64) BaseRateData {
	return BaseRateData{EpochIndex: epoch, BaseExchangeRate: uint256.NewInt(One)}
}

// Next rolls the base rate over to the next epoch, compounding the
// exchange rate by the current reward rate.
func (b BaseRateData) Next(baseRewardRate uint64) (BaseRateData, error) {
	exchange, err := mulDiv(b.BaseExchangeRate, uint256.NewInt(b.BaseRewardRate+One), u256One)
	if err != nil {
		return BaseRateData{}, err
	}
	return BaseRateData{
		EpochIndex:       b.EpochIndex + 1,
		BaseRewardRate:   baseRewardRate,
		BaseExchangeRate: exchange,
	}, nil
}

func (b BaseRateData) String() string {
	return fmt.Sprintf("base(epoch=%d reward=%d exchange=%v)", b.EpochIndex, b.BaseRewardRate, b.BaseExchangeRate)
}

// RateData is the reward and exchange rate of one validator in an epoch.
type RateData struct {
	IdentityKey  thor.Bytes32
	EpochIndex   uint64
	RewardRate   uint64
	ExchangeRate *uint256.Int
}

// GenesisRate returns the rate of a validator created at the given epoch.
func GenesisRate(id thor.Bytes32, epoch uint64) RateData {
	return RateData{IdentityKey: id, EpochIndex: epoch, ExchangeRate: uint256.NewInt(One)}
}

func (r RateData) copy() RateData {
	r.ExchangeRate = new(uint256.Int).Set(r.ExchangeRate)
	return r
}

// Next computes the rate of the following epoch. Only active validators
// accrue rewards; any other state rolls the rate over unchanged.
func (r RateData) Next(nextBase BaseRateData, streams []validator.FundingStream, state validator.State) (RateData, error) {
	if state != validator.Active {
		next := r.copy()
		next.EpochIndex++
		return next, nil
	}

	var commissionBps uint64
	for _, fs := range streams {
		commissionBps += uint64(fs.RateBps)
	}
	if commissionBps > validator.MaxCommissionBps {
		return RateData{}, errors.Errorf("commission %d bps exceeds 100%%", commissionBps)
	}

	// reward rate after commission, commission is in bps of One
	retained := uint256.NewInt(One - commissionBps*1_0000)
	reward, err := mulDiv(retained, uint256.NewInt(nextBase.BaseRewardRate), u256One)
	if err != nil {
		return RateData{}, err
	}
	exchange, err := mulDiv(r.ExchangeRate, uint256.NewInt(r.RewardRate+One), u256One)
	if err != nil {
		return RateData{}, err
	}
	return RateData{
		IdentityKey:  r.IdentityKey,
		EpochIndex:   r.EpochIndex + 1,
		RewardRate:   reward.Uint64(),
		ExchangeRate: exchange,
	}, nil
}

// Slash discounts the exchange rate by the penalty. It never increases it.
func (r RateData) Slash(p penalty.Penalty) RateData {
	slashed := r.copy()
	slashed.ExchangeRate = p.ApplyTo(r.ExchangeRate)
	return slashed
}

// UnbondedAmount converts delegation tokens into staking tokens.
func (r RateData) UnbondedAmount(delegationAmount *uint256.Int) (*uint256.Int, error) {
	return mulDiv(delegationAmount, r.ExchangeRate, u256One)
}

// DelegationAmount converts staking tokens into delegation tokens.
func (r RateData) DelegationAmount(unbondedAmount *uint256.Int) (*uint256.Int, error) {
	if r.ExchangeRate.IsZero() {
		return nil, errors.New("zero exchange rate")
	}
	return mulDiv(unbondedAmount, u256One, r.ExchangeRate)
}

// VotingPower returns the voting power backed by the delegation pool.
func (r RateData) VotingPower(totalDelegationTokens *uint256.Int, base BaseRateData) (*uint256.Int, error) {
	if base.BaseExchangeRate.IsZero() {
		return nil, errors.New("zero base exchange rate")
	}
	return mulDiv(totalDelegationTokens, r.ExchangeRate, base.BaseExchangeRate)
}

func (r RateData) String() string {
	return fmt.Sprintf("rate(%s epoch=%d reward=%d exchange=%v)", r.IdentityKey.AbbrevString(), r.EpochIndex, r.RewardRate, r.ExchangeRate)
}

// RewardAmount is the commission of a funding stream for one epoch: its
// share of the base reward accrued by the delegation pool between the
// current and the next base exchange rate.
func RewardAmount(fs validator.FundingStream, totalDelegationTokens *uint256.Int, nextBase, currentBase BaseRateData) (*uint256.Int, error) {
	if nextBase.BaseExchangeRate.Cmp(currentBase.BaseExchangeRate) <= 0 {
		return new(uint256.Int), nil
	}
	diff := new(uint256.Int).Sub(nextBase.BaseExchangeRate, currentBase.BaseExchangeRate)
	share, err := mulDiv(totalDelegationTokens, uint256.NewInt(uint64(fs.RateBps)), uint256.NewInt(validator.MaxCommissionBps))
	if err != nil {
		return nil, err
	}
	return mulDiv(share, diff, u256One)
}
