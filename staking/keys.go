// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "encoding/binary"

const (
	prefixState       = "staking/state/"
	prefixBonding     = "staking/bonding/"
	prefixPower       = "staking/power/"
	prefixCurrentRate = "staking/rate/current/"
	prefixNextRate    = "staking/rate/next/"
	prefixUptime      = "staking/uptime/"
	prefixChanges     = "staking/changes/"
	slotCurrentBase   = "staking/base/current"
	slotNextBase      = "staking/base/next"
	slotConsensusKeys = "staking/consensus-keys"
)

// heightKey orders delegation changes by height.
type heightKey uint64

func (k heightKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}
