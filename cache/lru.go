// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the read caches of the api.
package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/stake/log"
	"github.com/vechain/stake/metrics"
)

var (
	logger = log.WithContext("pkg", "cache")

	metricLookupsCounterVec = metrics.LazyLoadCounterVec("cache_lookups", []string{"cache", "result"})
)

// Loader loads the value of a missed key.
type Loader func(key interface{}) (interface{}, error)

// LRU is a named golang-lru cache that reports its hit rate.
type LRU struct {
	name  string
	cache *lru.Cache
	stats Stats
}

// NewLRU creates a cache holding at most size entries. size must be
// positive.
func NewLRU(name string, size int) (*LRU, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU{name: name, cache: c}, nil
}

// GetOrLoad returns the cached value of key, calling loader on a miss.
// Failed loads are not cached.
func (l *LRU) GetOrLoad(key interface{}, loader Loader) (interface{}, error) {
	if v, ok := l.cache.Get(key); ok {
		l.record(l.stats.Hit, "hit")
		return v, nil
	}
	l.record(l.stats.Miss, "miss")

	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, v)
	return v, nil
}

func (l *LRU) record(count func() int64, result string) {
	count()
	metricLookupsCounterVec().AddWithLabel(1, map[string]string{"cache": l.name, "result": result})
	if changed, hit, miss := l.stats.Stats(); changed {
		logger.Debug("cache hit rate changed", "cache", l.name, "hit", hit, "miss", miss)
	}
}

// Len returns the number of cached entries.
func (l *LRU) Len() int { return l.cache.Len() }

// Purge drops every entry.
func (l *LRU) Purge() { l.cache.Purge() }

// Stats returns the hit and miss counts.
func (l *LRU) Stats() (hit, miss int64) {
	return l.stats.hit.Load(), l.stats.miss.Load()
}
