// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stake/staking/validator"
)

func TestFilter(t *testing.T) {
	var l Log
	l.Append(StateChanged{From: validator.Inactive, To: validator.Active})
	l.Append(PowerChanged{Power: 5})
	l.Append(StateChanged{From: validator.Active, To: validator.Jailed})

	assert.Equal(t, 3, l.Len())
	changes := Filter[StateChanged](&l)
	assert.Len(t, changes, 2)
	assert.Equal(t, validator.Jailed, changes[1].To)
	assert.Len(t, Filter[EpochEnded](&l), 0)
}
