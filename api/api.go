// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the read-only http api of the staking app.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stake/api/middleware"
	"github.com/vechain/stake/api/node"
	"github.com/vechain/stake/api/validators"
	"github.com/vechain/stake/log"
	"github.com/vechain/stake/metrics"
)

var logger = log.WithContext("pkg", "api")

// Backend is what the api reads from.
type Backend interface {
	validators.Viewer
	node.Status
}

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	CacheSize            int
}

// New returns the api handler.
func New(backend Backend, opts Options) (http.Handler, error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	vals, err := validators.New(backend, opts.CacheSize)
	if err != nil {
		return nil, err
	}
	vals.Mount(router, "/validators")
	node.New(backend).
		Mount(router, "/node")

	if opts.EnableMetrics {
		router.Path("/metrics").
			Methods(http.MethodGet).
			Name("GET /metrics").
			Handler(metrics.HTTPHandler())
		router.Use(middleware.Metrics)
	}
	router.Use(middleware.RequestLogger(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.ExposedHeaders([]string{validators.HeightHeader}),
	)(handler)
	return handler, nil
}
