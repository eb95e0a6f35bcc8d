// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Key is the key type of a Mapping.
type Key interface {
	Bytes() []byte
}

// Mapping is a typed, rlp-encoded key/value space under a fixed prefix.
// Keys are stored raw after the prefix, so iteration follows the byte
// order of the keys.
type Mapping[K Key, V any] struct {
	state  *State
	prefix []byte
}

// NewMapping creates a mapping rooted at prefix.
func NewMapping[K Key, V any](state *State, prefix string) *Mapping[K, V] {
	return &Mapping[K, V]{state: state, prefix: []byte(prefix)}
}

func (m *Mapping[K, V]) key(k []byte) []byte {
	return append(append(make([]byte, 0, len(m.prefix)+len(k)), m.prefix...), k...)
}

// Get decodes the value stored for key. The bool result reports whether
// a value exists; the zero value is returned otherwise.
func (m *Mapping[K, V]) Get(key K) (value V, found bool, err error) {
	raw, found, err := m.state.Get(m.key(key.Bytes()))
	if err != nil || !found {
		return value, false, err
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %x", m.key(key.Bytes()))
	}
	return value, true, nil
}

// Set encodes and stores value for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	m.state.Put(m.key(key.Bytes()), raw)
	return nil
}

// Delete removes the value of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.state.Delete(m.key(key.Bytes()))
}

// Iterate visits all entries whose key starts with sub, in key order.
// The key passed to fn has the mapping prefix stripped.
func (m *Mapping[K, V]) Iterate(sub []byte, fn func(key []byte, value V) error) error {
	return m.state.Iterate(m.key(sub), func(k, raw []byte) error {
		var value V
		if err := rlp.DecodeBytes(raw, &value); err != nil {
			return errors.Wrapf(err, "decode %x", k)
		}
		return fn(k[len(m.prefix):], value)
	})
}

// Slot is a single typed value stored at a fixed key.
type Slot[V any] struct {
	state *State
	key   []byte
}

// NewSlot creates a slot at key.
func NewSlot[V any](state *State, key string) *Slot[V] {
	return &Slot[V]{state: state, key: []byte(key)}
}

// Get decodes the slot value.
func (s *Slot[V]) Get() (value V, found bool, err error) {
	raw, found, err := s.state.Get(s.key)
	if err != nil || !found {
		return value, false, err
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %s", s.key)
	}
	return value, true, nil
}

// Set encodes and stores the slot value.
func (s *Slot[V]) Set(value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	s.state.Put(s.key, raw)
	return nil
}
