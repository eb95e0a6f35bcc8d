// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package penalty

import (
	"encoding/binary"

	"github.com/vechain/stake/state"
	"github.com/vechain/stake/thor"
)

type bucketKey struct {
	id    thor.Bytes32
	epoch uint64
}

// Bytes lays out identity then big-endian epoch, so a scan over one
// validator's buckets runs in epoch order.
func (k bucketKey) Bytes() []byte {
	b := make([]byte, 0, 40)
	b = append(b, k.id[:]...)
	return binary.BigEndian.AppendUint64(b, k.epoch)
}

// Ledger accumulates slashing penalties per validator and epoch.
type Ledger struct {
	buckets *state.Mapping[bucketKey, Penalty]
}

// NewLedger creates a ledger over the state.
func NewLedger(st *state.State) *Ledger {
	return &Ledger{state.NewMapping[bucketKey, Penalty](st, "penalty/")}
}

// Record compounds p into the bucket of the validator for the epoch.
func (l *Ledger) Record(id thor.Bytes32, epoch uint64, p Penalty) error {
	key := bucketKey{id, epoch}
	existing, _, err := l.buckets.Get(key)
	if err != nil {
		return err
	}
	return l.buckets.Set(key, existing.Compound(p))
}

// InEpoch returns the compounded penalty recorded for the epoch, or the
// identity if none was recorded.
func (l *Ledger) InEpoch(id thor.Bytes32, epoch uint64) (Penalty, error) {
	p, found, err := l.buckets.Get(bucketKey{id, epoch})
	if err != nil || !found {
		return Identity(), err
	}
	return p, nil
}

// CompoundedOverRange compounds, in epoch order, every bucket of the
// validator within [start, end).
func (l *Ledger) CompoundedOverRange(id thor.Bytes32, start, end uint64) (Penalty, error) {
	acc := Identity()
	if start >= end {
		return acc, nil
	}
	err := l.buckets.Iterate(id[:], func(key []byte, p Penalty) error {
		epoch := binary.BigEndian.Uint64(key[len(id):])
		if epoch >= start && epoch < end {
			acc = acc.Compound(p)
		}
		return nil
	})
	if err != nil {
		return Penalty{}, err
	}
	return acc, nil
}
