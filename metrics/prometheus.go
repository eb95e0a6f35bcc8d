// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stake"

// InitializePrometheusMetrics creates a new instance of the Prometheus service and
// sets the implementation as the default metrics services.
func InitializePrometheusMetrics() {
	// don't allow for reset
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = newPrometheusMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	}
}

type prometheusMetrics struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	meters     sync.Map // name => meter
}

func newPrometheusMetrics(r prometheus.Registerer, g prometheus.Gatherer) *prometheusMetrics {
	return &prometheusMetrics{registerer: r, gatherer: g}
}

// getOrCreate returns the meter registered under name, creating it with
// newMeter on first use.
func getOrCreate[T any](o *prometheusMetrics, name string, newMeter func() (prometheus.Collector, T)) T {
	if m, ok := o.meters.Load(name); ok {
		return m.(T)
	}
	collector, meter := newMeter()
	if err := o.registerer.Register(collector); err != nil {
		ethlog.Warn("unable to register metric", "name", name, "err", err)
	}
	actual, _ := o.meters.LoadOrStore(name, meter)
	return actual.(T)
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCountMeter{c}
	})
}

func (o *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCountVecMeter{c}
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGaugeMeter{g}
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, GaugeVecMeter) {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return g, &promGaugeVecMeter{g}
	})
}

func (o *prometheusMetrics) GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, HistogramMeter) {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			floatBuckets = append(floatBuckets, float64(b))
		}
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: floatBuckets})
		return h, &promHistogramMeter{h}
	})
}

type promCountMeter struct{ counter prometheus.Counter }

func (c *promCountMeter) Add(i int64) { c.counter.Add(float64(i)) }

type promCountVecMeter struct{ counter *prometheus.CounterVec }

func (c *promCountVecMeter) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGaugeMeter struct{ gauge prometheus.Gauge }

func (g *promGaugeMeter) Add(i int64) { g.gauge.Add(float64(i)) }
func (g *promGaugeMeter) Set(i int64) { g.gauge.Set(float64(i)) }

type promGaugeVecMeter struct{ gauge *prometheus.GaugeVec }

func (g *promGaugeVecMeter) AddWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Add(float64(i))
}

func (g *promGaugeVecMeter) SetWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Set(float64(i))
}

type promHistogramMeter struct{ histogram prometheus.Histogram }

func (h *promHistogramMeter) Observe(i int64) { h.histogram.Observe(float64(i)) }
