// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "fmt"

// Epoch is a fixed span of blocks. Rates, rewards and the active set are
// recomputed only when an epoch ends.
type Epoch struct {
	Index       uint64
	StartHeight uint64
	Duration    uint64
}

// EpochAt returns the epoch containing the given height.
func EpochAt(height, duration uint64) Epoch {
	if duration == 0 {
		panic("epoch duration must be positive")
	}
	index := height / duration
	return Epoch{
		Index:       index,
		StartHeight: index * duration,
		Duration:    duration,
	}
}

// EndHeight returns the last height of the epoch (inclusive).
func (e Epoch) EndHeight() uint64 {
	return e.StartHeight + e.Duration - 1
}

// IsEpochEnd reports whether the height closes the epoch.
func (e Epoch) IsEpochEnd(height uint64) bool {
	return height == e.EndHeight()
}

// Contains reports whether the height lies within the epoch.
func (e Epoch) Contains(height uint64) bool {
	return height >= e.StartHeight && height <= e.EndHeight()
}

func (e Epoch) String() string {
	return fmt.Sprintf("epoch#%d[%d..%d]", e.Index, e.StartHeight, e.EndHeight())
}
