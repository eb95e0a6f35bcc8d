// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package middleware holds the http middlewares of the api.
package middleware

import (
	"net/http"
	"time"

	"github.com/vechain/stake/log"
)

// statusWriter captures the status code of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{w, http.StatusOK}
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs every request when enabled, and otherwise only those
// slower than slowThreshold. A zero threshold disables slow request logs.
func RequestLogger(logger log.Logger, enabled bool, slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled && slowThreshold == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			if enabled || duration > slowThreshold {
				logger.Info("API Request",
					"DurationMs", duration.Milliseconds(),
					"URI", r.URL.String(),
					"Method", r.Method,
					"Status", sw.status,
				)
			}
		})
	}
}
