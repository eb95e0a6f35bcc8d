// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package muxdb implements the storage layer of the staking engine.
// It multiplexes named kv-stores over a single leveldb instance.
package muxdb

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vechain/stake/kv"
	"github.com/vechain/stake/muxdb/internal/engine"
)

const (
	namedStoreSpace = byte(3) // the key space for named store.

	propStoreName = "muxdb.props"
	configKey     = "config"

	// SchemaVersion is bumped whenever the layout of stored records changes.
	SchemaVersion = uint32(1)
)

// Options optional parameters for MuxDB.
type Options struct {
	// OpenFilesCacheCapacity is the capacity of open files caching for underlying database.
	OpenFilesCacheCapacity int
	// ReadCacheMB is the size of read cache for underlying database.
	ReadCacheMB int
	// WriteBufferMB is the size of write buffer for underlying database.
	WriteBufferMB int
	// Sync flushes every write to disk before it returns.
	Sync bool
}

// MuxDB is the database holding the staking state.
type MuxDB struct {
	engine engine.Engine
}

// Open opens or creates DB at the given path.
func Open(path string, options *Options) (*MuxDB, error) {
	ldbOpts := opt.Options{
		OpenFilesCacheCapacity: options.OpenFilesCacheCapacity,
		BlockCacheCapacity:     options.ReadCacheMB * opt.MiB,
		WriteBuffer:            options.WriteBufferMB * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}

	ldb, err := leveldb.OpenFile(path, &ldbOpts)
	if _, corrupted := err.(*dberrors.ErrCorrupted); corrupted {
		ldb, err = leveldb.RecoverFile(path, &ldbOpts)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}

	engine := engine.NewLevelEngine(ldb, options.Sync)

	propStore := kv.Bucket(string(namedStoreSpace) + propStoreName).NewStore(engine)
	cfg := config{SchemaVersion: SchemaVersion}
	if err := cfg.LoadOrSave(propStore); err != nil {
		ldb.Close()
		return nil, err
	}
	logger.Debug("database opened", "path", path, "schema", cfg.SchemaVersion)

	return &MuxDB{engine: engine}, nil
}

// NewMem creates a memory-backed DB.
func NewMem() *MuxDB {
	ldb, _ := leveldb.Open(storage.NewMemStorage(), nil)
	return &MuxDB{engine: engine.NewLevelEngine(ldb, false)}
}

// Close closes the DB.
func (db *MuxDB) Close() error {
	return db.engine.Close()
}

// NewStore creates named kv-store.
func (db *MuxDB) NewStore(name string) kv.Store {
	return &meteredStore{
		Store: kv.Bucket(string(namedStoreSpace) + name).NewStore(db.engine),
		name:  name,
	}
}

// IsNotFound returns if the error indicates key not found.
func (db *MuxDB) IsNotFound(err error) bool {
	return db.engine.IsNotFound(err)
}

type config struct {
	SchemaVersion uint32
}

// LoadOrSave loads the persisted config and checks it against c, or saves c
// if the database is fresh.
func (c *config) LoadOrSave(store kv.Store) error {
	data, err := store.Get([]byte(configKey))
	if err == nil {
		var saved config
		if err := json.Unmarshal(data, &saved); err != nil {
			return errors.Wrap(err, "decode config")
		}
		if saved.SchemaVersion != c.SchemaVersion {
			return errors.Errorf("incompatible schema version: want %d, got %d", c.SchemaVersion, saved.SchemaVersion)
		}
		return nil
	}

	if !store.IsNotFound(err) {
		return errors.Wrap(err, "load config")
	}

	enc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return store.Put([]byte(configKey), enc)
}
