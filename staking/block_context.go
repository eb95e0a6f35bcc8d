// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/stake/consensus"
	"github.com/vechain/stake/staking/delegation"
	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/supply"
	"github.com/vechain/stake/thor"
)

// BlockContext carries the scratch data of the block being processed. It
// is created at block start and dropped once the block commits.
type BlockContext struct {
	Height uint64
	Epoch  thor.Epoch

	// DelegationChanges collects the delegation actions of the block.
	DelegationChanges delegation.Changes
	// ValidatorUpdates is the power list built at block end.
	ValidatorUpdates []consensus.ValidatorUpdate
	// Mints lists the mint requests issued during the block.
	Mints  []supply.MintRequest
	Events event.Log
}

// NewBlockContext creates the context of the block at height.
func NewBlockContext(height, epochDuration uint64) *BlockContext {
	return &BlockContext{
		Height: height,
		Epoch:  thor.EpochAt(height, epochDuration),
	}
}
