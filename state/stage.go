// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/stake/kv"
)

// Stage abstracts changes on the state.
type Stage struct {
	store   kv.Store
	keys    []string
	changes map[string][]byte
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes in one batch. Either every change is persisted
// or none is.
func (s *Stage) Commit() error {
	bulk := s.store.Bulk()
	for _, k := range s.keys {
		v := s.changes[k]
		var err error
		if v == nil {
			err = bulk.Delete([]byte(k))
		} else {
			err = bulk.Put([]byte(k), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	metricStageCommitCounter().Add(1)
	return nil
}
