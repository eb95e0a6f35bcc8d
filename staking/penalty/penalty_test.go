// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRate(t *testing.T, r uint64) Penalty {
	p, err := FromRate(r)
	require.NoError(t, err)
	return p
}

func TestFromRate(t *testing.T) {
	assert.True(t, mustRate(t, 0).IsIdentity())
	assert.True(t, Penalty{}.IsIdentity())

	_, err := FromRate(One + 1)
	assert.Error(t, err)
	_, err = FromBasisPoints(10_001)
	assert.Error(t, err)

	p, err := FromBasisPoints(1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000_0000), p.Rate())
}

func TestApplyTo(t *testing.T) {
	x := uint256.NewInt(One)

	assert.Equal(t, uint64(One), Identity().ApplyTo(x).Uint64())
	assert.Equal(t, uint64(9000_0000), mustRate(t, 1000_0000).ApplyTo(x).Uint64())
	assert.Equal(t, uint64(0), mustRate(t, One).ApplyTo(x).Uint64())

	// rounding happens once, after compounding
	p := mustRate(t, 3333_3333).Compound(mustRate(t, 3333_3333))
	assert.Equal(t, uint64(4444_4444), p.ApplyTo(x).Uint64())
	assert.Equal(t, uint64(5555_5556), p.Rate())
}

func TestCompoundAssociative(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for n := 0; n < 500; n++ {
		var r1, r2, r3 uint64
		f.Fuzz(&r1)
		f.Fuzz(&r2)
		f.Fuzz(&r3)
		p1, p2, p3 := mustRate(t, r1%(One+1)), mustRate(t, r2%(One+1)), mustRate(t, r3%(One+1))

		left := p1.Compound(p2).Compound(p3)
		right := p1.Compound(p2.Compound(p3))
		assert.True(t, left.Equal(right))
		assert.Equal(t, 0, left.Retained.Cmp(right.Retained))
		assert.Equal(t, left.Scale, right.Scale)

		assert.True(t, p1.Compound(p2).Equal(p2.Compound(p1)))
		assert.True(t, p1.Compound(Identity()).Equal(p1))
	}
}

func TestCompoundNeverIncreases(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for n := 0; n < 200; n++ {
		var r1, r2, x uint64
		f.Fuzz(&r1)
		f.Fuzz(&r2)
		f.Fuzz(&x)
		p := mustRate(t, r1%(One+1)).Compound(mustRate(t, r2%(One+1)))
		v := uint256.NewInt(x)
		assert.True(t, p.ApplyTo(v).Cmp(v) <= 0)
	}
}
