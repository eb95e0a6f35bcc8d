// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/stake/metrics"
)

var (
	metricRequestCounterVec = metrics.LazyLoadCounterVec("api_request_count", []string{"path", "code", "method"})
	metricRequestDuration   = metrics.LazyLoadHistogram("api_duration_ms", []int64{1, 5, 10, 25, 50, 100, 250, 500, 1000})
)

// Metrics counts requests per route template, so path parameters do not
// create new label values.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		path := "unknown"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		metricRequestCounterVec().AddWithLabel(1, map[string]string{
			"path":   path,
			"code":   strconv.Itoa(sw.status),
			"method": r.Method,
		})
		metricRequestDuration().Observe(time.Since(start).Milliseconds())
	})
}
