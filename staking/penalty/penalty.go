// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// One is 1.0 in the fixed-point representation of penalty rates.
const One = 1_0000_0000

var bigOne = big.NewInt(One)

// Penalty is a multiplicative discount. It keeps the retained fraction as
// the exact rational Retained / One^Scale, so compounding never rounds and
// is associative and commutative. The zero value is the identity.
type Penalty struct {
	Retained *big.Int
	Scale    uint64
}

// Identity returns the penalty that discounts nothing.
func Identity() Penalty {
	return Penalty{Retained: big.NewInt(1), Scale: 0}
}

// FromRate builds a penalty discounting rate/One of the value.
func FromRate(rate uint64) (Penalty, error) {
	if rate > One {
		return Penalty{}, errors.Errorf("penalty rate %d exceeds %d", rate, One)
	}
	if rate == 0 {
		return Identity(), nil
	}
	return Penalty{Retained: new(big.Int).SetUint64(One - rate), Scale: 1}, nil
}

// FromBasisPoints builds a penalty discounting bps/10000 of the value.
func FromBasisPoints(bps uint64) (Penalty, error) {
	if bps > 10_000 {
		return Penalty{}, errors.Errorf("penalty %d bps exceeds 100%%", bps)
	}
	return FromRate(bps * 1_0000)
}

func (p Penalty) normalized() Penalty {
	if p.Retained == nil {
		return Identity()
	}
	return p
}

func denominator(scale uint64) *big.Int {
	return new(big.Int).Exp(bigOne, new(big.Int).SetUint64(scale), nil)
}

// Compound returns the penalty equivalent to applying p then other.
func (p Penalty) Compound(other Penalty) Penalty {
	a, b := p.normalized(), other.normalized()
	return Penalty{
		Retained: new(big.Int).Mul(a.Retained, b.Retained),
		Scale:    a.Scale + b.Scale,
	}
}

// IsIdentity reports whether the penalty discounts nothing.
func (p Penalty) IsIdentity() bool {
	return p.Equal(Identity())
}

// Equal compares the retained fractions.
func (p Penalty) Equal(other Penalty) bool {
	a, b := p.normalized(), other.normalized()
	lhs := new(big.Int).Mul(a.Retained, denominator(b.Scale))
	rhs := new(big.Int).Mul(b.Retained, denominator(a.Scale))
	return lhs.Cmp(rhs) == 0
}

// ApplyTo returns floor(x * retained fraction).
func (p Penalty) ApplyTo(x *uint256.Int) *uint256.Int {
	n := p.normalized()
	if n.Scale == 0 {
		return new(uint256.Int).Mul(x, uint256.MustFromBig(n.Retained))
	}
	v := new(big.Int).Mul(x.ToBig(), n.Retained)
	v.Quo(v, denominator(n.Scale))
	// v <= x since the retained fraction is at most one
	return uint256.MustFromBig(v)
}

// Rate returns the discount as a fraction of One, rounded down.
func (p Penalty) Rate() uint64 {
	return One - p.ApplyTo(uint256.NewInt(One)).Uint64()
}

func (p Penalty) String() string {
	return fmt.Sprintf("penalty(%d/%d)", p.Rate(), uint64(One))
}
