// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package supply keeps the circulating supply of the staking token and of
// every validator's delegation token, and credits minted rewards.
package supply

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

// Asset identifies a token.
type Asset = thor.Bytes32

// StakingToken is the native staking token.
var StakingToken = thor.Blake2b([]byte("ustake"))

// DelegationToken returns the delegation token of a validator.
func DelegationToken(identityKey thor.Bytes32) Asset {
	return thor.Blake2b([]byte("udelegation_"), identityKey[:])
}

// Delta is a signed supply adjustment.
type Delta struct {
	Amount   uint64
	Negative bool
}

// Increase returns a positive delta.
func Increase(amount uint64) Delta { return Delta{Amount: amount} }

// Decrease returns a negative delta.
func Decrease(amount uint64) Delta { return Delta{Amount: amount, Negative: true} }

func (d Delta) String() string {
	if d.Negative {
		return fmt.Sprintf("-%d", d.Amount)
	}
	return fmt.Sprintf("+%d", d.Amount)
}

func (d Delta) apply(v uint64) (uint64, error) {
	if d.Negative {
		if d.Amount > v {
			return 0, errors.Errorf("supply underflow: %d %s", v, d)
		}
		return v - d.Amount, nil
	}
	sum, overflow := math.SafeAdd(v, d.Amount)
	if overflow {
		return 0, errors.Errorf("supply overflow: %d %s", v, d)
	}
	return sum, nil
}

// SourceKind tags the provenance of minted tokens.
type SourceKind uint8

const (
	SourceGenesis = SourceKind(iota)
	SourceFundingStreamReward
)

// Source is the provenance of a mint.
type Source struct {
	Kind       SourceKind
	EpochIndex uint64
}

// MintRequest asks for new tokens to be credited to an address.
type MintRequest struct {
	Amount    uint64
	Asset     Asset
	Recipient thor.Address
	Source    Source
}

// Minter mints tokens.
type Minter interface {
	Mint(req MintRequest) error
}

type balanceKey struct {
	asset Asset
	addr  thor.Address
}

func (k balanceKey) Bytes() []byte {
	return append(append(make([]byte, 0, 52), k.asset[:]...), k.addr[:]...)
}

type u64Key uint64

func (k u64Key) Bytes() []byte { return binary.BigEndian.AppendUint64(nil, uint64(k)) }

// Ledger is the state-backed supply and balance book. It is also the
// default Minter.
type Ledger struct {
	supplies *state.Mapping[Asset, uint64]
	balances *state.Mapping[balanceKey, uint64]
	minted   *state.Mapping[u64Key, uint64] // epoch => reward minted
}

// NewLedger creates a ledger over the state.
func NewLedger(st *state.State) *Ledger {
	return &Ledger{
		supplies: state.NewMapping[Asset, uint64](st, "supply/"),
		balances: state.NewMapping[balanceKey, uint64](st, "balance/"),
		minted:   state.NewMapping[u64Key, uint64](st, "minted/"),
	}
}

// TokenSupply returns the supply of the asset, zero if never issued.
func (l *Ledger) TokenSupply(asset Asset) (uint64, error) {
	v, _, err := l.supplies.Get(asset)
	return v, err
}

// UpdateTokenSupply adjusts the supply of one asset.
func (l *Ledger) UpdateTokenSupply(asset Asset, delta Delta) error {
	cur, err := l.TokenSupply(asset)
	if err != nil {
		return err
	}
	next, err := delta.apply(cur)
	if err != nil {
		return errors.Wrapf(err, "asset %s", asset.AbbrevString())
	}
	return l.supplies.Set(asset, next)
}

// UpdatePair adjusts two supplies. Both adjustments are validated before
// either is written.
func (l *Ledger) UpdatePair(a Asset, da Delta, b Asset, db Delta) error {
	curA, err := l.TokenSupply(a)
	if err != nil {
		return err
	}
	curB, err := l.TokenSupply(b)
	if err != nil {
		return err
	}
	nextA, err := da.apply(curA)
	if err != nil {
		return errors.Wrapf(err, "asset %s", a.AbbrevString())
	}
	nextB, err := db.apply(curB)
	if err != nil {
		return errors.Wrapf(err, "asset %s", b.AbbrevString())
	}
	if err := l.supplies.Set(a, nextA); err != nil {
		return err
	}
	return l.supplies.Set(b, nextB)
}

// Balance returns the balance of an address in the asset.
func (l *Ledger) Balance(asset Asset, addr thor.Address) (uint64, error) {
	v, _, err := l.balances.Get(balanceKey{asset, addr})
	return v, err
}

// Mint credits the recipient and increases the asset supply.
func (l *Ledger) Mint(req MintRequest) error {
	if req.Amount == 0 {
		return nil
	}
	key := balanceKey{req.Asset, req.Recipient}
	bal, _, err := l.balances.Get(key)
	if err != nil {
		return err
	}
	newBal, err := Increase(req.Amount).apply(bal)
	if err != nil {
		return err
	}
	if err := l.UpdateTokenSupply(req.Asset, Increase(req.Amount)); err != nil {
		return err
	}
	if req.Source.Kind == SourceFundingStreamReward {
		total, _, err := l.minted.Get(u64Key(req.Source.EpochIndex))
		if err != nil {
			return err
		}
		if total, err = Increase(req.Amount).apply(total); err != nil {
			return err
		}
		if err := l.minted.Set(u64Key(req.Source.EpochIndex), total); err != nil {
			return err
		}
	}
	return l.balances.Set(key, newBal)
}

// RewardsMinted returns the total funding stream reward minted for the epoch.
func (l *Ledger) RewardsMinted(epoch uint64) (uint64, error) {
	v, _, err := l.minted.Get(u64Key(epoch))
	return v, err
}
