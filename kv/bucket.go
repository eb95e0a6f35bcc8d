// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store. Every key is prefixed with
// the bucket name; iterated keys come back with the prefix stripped.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(k)), b...), k...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) { return src.Get(b.key(key)) },
		func(key []byte) (bool, error) { return src.Has(b.key(key)) },
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error { return src.Put(b.key(key), val) },
		func(key []byte) error { return src.Delete(b.key(key)) },
	}
}

// NewIterate wraps the source iterate function into the bucket's key space.
func (b Bucket) NewIterate(src func(Range) Iterator) func(Range) Iterator {
	return func(r Range) Iterator {
		r.Start = b.key(r.Start)
		if len(r.Limit) == 0 {
			r.Limit = PrefixRange([]byte(b)).Limit
		} else {
			r.Limit = b.key(r.Limit)
		}
		return &bucketIterator{src(r), len(b)}
	}
}

type bucketIterator struct {
	Iterator
	prefixLen int
}

// Key returns the current key with the bucket stripped.
func (i *bucketIterator) Key() []byte {
	return i.Iterator.Key()[i.prefixLen:]
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		SnapshotFunc
		BulkFunc
		IterateFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Snapshot {
			snapshot := src.Snapshot()
			return &struct {
				Getter
				IterateFunc
				ReleaseFunc
			}{
				b.NewGetter(snapshot),
				b.NewIterate(snapshot.Iterate),
				snapshot.Release,
			}
		},
		func() Bulk {
			bulk := src.Bulk()
			return &struct {
				Putter
				LenFunc
				WriteFunc
			}{
				b.NewPutter(bulk),
				bulk.Len,
				bulk.Write,
			}
		},
		b.NewIterate(src.Iterate),
	}
}
