// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Getter defines methods to read kv.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Snapshot is a point-in-time read view of the store.
type Snapshot interface {
	Getter
	Iterate(r Range) Iterator
	Release()
}

// Bulk collects writes and applies them in one atomic batch on Write.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Iterator iterates over kv pairs in ascending key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// PrefixRange returns the range covering every key with the given prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{Start: r.Start, Limit: r.Limit}
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter

	Snapshot() Snapshot
	Bulk() Bulk
	Iterate(r Range) Iterator
}
