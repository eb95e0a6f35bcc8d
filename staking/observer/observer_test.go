// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stake/staking/event"
	"github.com/vechain/stake/staking/validator"
	"github.com/vechain/stake/thor"
)

func TestObserveCounts(t *testing.T) {
	o := New(map[validator.State]int64{validator.Active: 2})
	id := thor.Blake2b([]byte("v"))

	o.Observe(5, []event.Event{
		event.ValidatorAdded{Validator: id},
		event.StateChanged{Validator: id, From: validator.Inactive, To: validator.Active},
		event.StateChanged{Validator: id, From: validator.Active, To: validator.Jailed},
		event.Slashed{Validator: id, Reason: event.SlashDowntime},
		event.MissedBlocks{Validator: id, Missed: 3},
		event.EpochEnded{Epoch: thor.EpochAt(9, 10)},
	})

	assert.Equal(t, int64(2), o.Count(validator.Active))
	assert.Equal(t, int64(1), o.Count(validator.Jailed))
	assert.Equal(t, int64(0), o.Count(validator.Inactive))
}
