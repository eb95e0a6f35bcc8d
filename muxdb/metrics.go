// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package muxdb

import (
	"github.com/vechain/stake/kv"
	"github.com/vechain/stake/log"
	"github.com/vechain/stake/metrics"
)

var (
	logger = log.WithContext("pkg", "muxdb")

	metricBulkWriteCounterVec = metrics.LazyLoadCounterVec("kv_bulk_write_count", []string{"store"})
	metricBulkSizeHistogram   = metrics.LazyLoadHistogram("kv_bulk_size", metrics.BucketBatchSize)
)

// meteredStore reports bulk writes of a named store.
type meteredStore struct {
	kv.Store
	name string
}

func (s *meteredStore) Bulk() kv.Bulk {
	return &meteredBulk{s.Store.Bulk(), s.name}
}

type meteredBulk struct {
	kv.Bulk
	store string
}

func (b *meteredBulk) Write() error {
	n := b.Len()
	if err := b.Bulk.Write(); err != nil {
		return err
	}
	metricBulkWriteCounterVec().AddWithLabel(1, map[string]string{"store": b.store})
	metricBulkSizeHistogram().Observe(int64(n))
	return nil
}
