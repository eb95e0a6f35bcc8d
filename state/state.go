// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/stake/kv"
	"github.com/vechain/stake/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Source is what a state reads from. A kv.Store or a kv.Snapshot
// satisfies it.
type Source interface {
	kv.Getter
	Iterate(r kv.Range) kv.Iterator
}

// State manages the staking state of one block.
type State struct {
	store Source
	sm    *stackedmap.StackedMap[string, []byte] // keeps revisions of values, nil means deleted
}

// New create state object on top of the source.
func New(store Source) *State {
	s := &State{store: store}
	s.sm = stackedmap.New(s.storeGetter)
	return s
}

// storeGetter implements stackedmap.MapGetter.
func (s *State) storeGetter(key string) ([]byte, bool, error) {
	val, err := s.store.Get([]byte(key))
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, &Error{err}
	}
	return val, true, nil
}

// Get returns the value stored under key. The bool result reports whether
// the key exists.
func (s *State) Get(key []byte) ([]byte, bool, error) {
	val, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, false, err
	}
	if val == nil {
		metricStateAccessCounter().AddWithLabel(1, map[string]string{"op": "get", "result": "miss"})
		return nil, false, nil
	}
	metricStateAccessCounter().AddWithLabel(1, map[string]string{"op": "get", "result": "hit"})
	return val, true, nil
}

// Has reports whether key exists.
func (s *State) Has(key []byte) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

// Put sets the value of key.
func (s *State) Put(key, val []byte) {
	if val == nil {
		val = []byte{}
	}
	s.sm.Put(string(key), val)
}

// Delete removes key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), nil)
}

// Iterate visits every live key with the given prefix in ascending byte
// order, merging committed values with pending writes. Iteration stops at
// the first error returned by fn.
func (s *State) Iterate(prefix []byte, fn func(key, val []byte) error) error {
	// collect pending keys under the prefix
	var dirty []string
	seen := make(map[string]struct{})
	p := string(prefix)
	s.sm.Journal(func(k string, _ []byte) bool {
		if strings.HasPrefix(k, p) {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				dirty = append(dirty, k)
			}
		}
		return true
	})
	sort.Strings(dirty)

	emitDirty := func(k string) error {
		val, _, err := s.sm.Get(k)
		if err != nil {
			return err
		}
		if val == nil {
			return nil
		}
		return fn([]byte(k), val)
	}

	it := s.store.Iterate(kv.PrefixRange(prefix))
	defer it.Release()

	i := 0
	for it.Next() {
		key := it.Key()
		for i < len(dirty) && bytes.Compare([]byte(dirty[i]), key) < 0 {
			if err := emitDirty(dirty[i]); err != nil {
				return err
			}
			i++
		}
		if _, ok := seen[string(key)]; ok {
			// shadowed by a pending write, emitted from the dirty list
			continue
		}
		if err := fn(append([]byte(nil), key...), append([]byte(nil), it.Value()...)); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	for ; i < len(dirty); i++ {
		if err := emitDirty(dirty[i]); err != nil {
			return err
		}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the net changes made so far. It fails if the state was
// created over a read-only source.
func (s *State) Stage() (*Stage, error) {
	store, ok := s.store.(kv.Store)
	if !ok {
		return nil, errors.New("state: read-only source")
	}
	changes := make(map[string][]byte)
	var order []string
	s.sm.Journal(func(k string, v []byte) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	sort.Strings(order)
	return &Stage{store: store, keys: order, changes: changes}, nil
}
