// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/stake/kv"
)

var (
	readOpt = opt.ReadOptions{}
	scanOpt = opt.ReadOptions{DontFillCache: true}
)

// levelEngine serves kv over goleveldb. Block commits go through Bulk, so
// single puts and deletes are only used for metadata.
type levelEngine struct {
	db       *leveldb.DB
	writeOpt *opt.WriteOptions
}

// NewLevelEngine wraps db. With sync set every write is flushed to disk
// before returning.
func NewLevelEngine(db *leveldb.DB, sync bool) Engine {
	return &levelEngine{db: db, writeOpt: &opt.WriteOptions{Sync: sync}}
}

func (e *levelEngine) Close() error { return e.db.Close() }

func (e *levelEngine) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (e *levelEngine) Get(key []byte) ([]byte, error) {
	val, err := e.db.Get(key, &readOpt)
	if err != nil {
		// goleveldb returns an empty slice with the error
		return nil, err
	}
	return val, nil
}

func (e *levelEngine) Has(key []byte) (bool, error) { return e.db.Has(key, &readOpt) }

func (e *levelEngine) Put(key, val []byte) error { return e.db.Put(key, val, e.writeOpt) }

func (e *levelEngine) Delete(key []byte) error { return e.db.Delete(key, e.writeOpt) }

func (e *levelEngine) Iterate(r kv.Range) kv.Iterator {
	return e.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &scanOpt)
}

func (e *levelEngine) Snapshot() kv.Snapshot {
	s, err := e.db.GetSnapshot()
	return &levelSnapshot{engine: e, snap: s, err: err}
}

func (e *levelEngine) Bulk() kv.Bulk {
	return &levelBulk{engine: e, batch: new(leveldb.Batch)}
}

// levelSnapshot is a consistent read view. A failed snapshot reports its
// error on every read.
type levelSnapshot struct {
	engine *levelEngine
	snap   *leveldb.Snapshot
	err    error
}

func (s *levelSnapshot) IsNotFound(err error) bool { return s.engine.IsNotFound(err) }

func (s *levelSnapshot) Get(key []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	val, err := s.snap.Get(key, &readOpt)
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *levelSnapshot) Has(key []byte) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.snap.Has(key, &readOpt)
}

func (s *levelSnapshot) Iterate(r kv.Range) kv.Iterator {
	if s.err != nil {
		return &errIterator{s.err}
	}
	return s.snap.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &scanOpt)
}

func (s *levelSnapshot) Release() {
	if s.snap != nil {
		s.snap.Release()
	}
}

// levelBulk buffers writes in a batch applied atomically by Write.
type levelBulk struct {
	engine *levelEngine
	batch  *leveldb.Batch
}

func (b *levelBulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *levelBulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBulk) Len() int { return b.batch.Len() }

func (b *levelBulk) Write() error {
	defer b.batch.Reset()
	if b.batch.Len() == 0 {
		return nil
	}
	return b.engine.db.Write(b.batch, b.engine.writeOpt)
}

type errIterator struct{ err error }

func (i *errIterator) Next() bool    { return false }
func (i *errIterator) Key() []byte   { return nil }
func (i *errIterator) Value() []byte { return nil }
func (i *errIterator) Release()      {}
func (i *errIterator) Error() error  { return i.err }
