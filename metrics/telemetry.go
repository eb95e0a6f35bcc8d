// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics gives package-wide access to meters. It defaults to a
// no-op implementation until InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// BucketBatchSize buckets the number of keys written in one batch.
var BucketBatchSize = []int64{0, 10, 50, 100, 250, 500, 1000, 5000, 10_000}

// HistogramMeter aggregates observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.GetOrCreateHistogramMeter(name, buckets)
}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

// CountVecMeter is a CountMeter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

// GaugeMeter is a single value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

func Gauge(name string) GaugeMeter {
	return metrics.GetOrCreateGaugeMeter(name)
}

// GaugeVecMeter is a GaugeMeter partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.GetOrCreateGaugeVecMeter(name, labels)
}

// LazyLoad defers creating a meter until first use, so meters can be
// declared as package vars before the implementation is chosen.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}
