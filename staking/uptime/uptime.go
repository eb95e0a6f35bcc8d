// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package uptime tracks block signing over a sliding window of heights.
package uptime

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// Uptime is the signing record of a validator over the last WindowLen
// heights up to AsOfHeight. A set bit marks a missed block; a fresh window
// counts every height as signed.
type Uptime struct {
	AsOfHeight uint64
	WindowLen  uint64
	Missed     []uint64 // bitset words
}

// New creates an all-signed window ending at asOf.
func New(asOf, windowLen uint64) Uptime {
	return Uptime{
		AsOfHeight: asOf,
		WindowLen:  windowLen,
		Missed:     bitset.New(uint(windowLen)).Words(),
	}
}

func (u *Uptime) bits() *bitset.BitSet {
	words := make([]uint64, (u.WindowLen+63)/64)
	copy(words, u.Missed)
	return bitset.FromWithLength(uint(u.WindowLen), words)
}

// MarkHeightAsSigned records whether the validator signed the block at
// height. Heights must be recorded consecutively.
func (u *Uptime) MarkHeightAsSigned(height uint64, signed bool) error {
	if u.WindowLen == 0 {
		return errors.New("empty signing window")
	}
	if height != u.AsOfHeight+1 {
		return errors.Errorf("uptime out of order: as of %d, got height %d", u.AsOfHeight, height)
	}
	b := u.bits()
	b.SetTo(uint(height%u.WindowLen), !signed)
	u.Missed = b.Words()
	u.AsOfHeight = height
	return nil
}

// NumMissedBlocks returns the number of missed blocks within the window.
func (u *Uptime) NumMissedBlocks() uint64 {
	return uint64(u.bits().Count())
}

// MissedHeights lists the missed heights still inside the window, ascending.
func (u *Uptime) MissedHeights() []uint64 {
	b := u.bits()
	var heights []uint64
	for h := u.windowStart(); h <= u.AsOfHeight; h++ {
		if b.Test(uint(h % u.WindowLen)) {
			heights = append(heights, h)
		}
	}
	return heights
}

func (u *Uptime) windowStart() uint64 {
	if u.AsOfHeight+1 < u.WindowLen {
		return 0
	}
	return u.AsOfHeight + 1 - u.WindowLen
}
