// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the staking database, in memory if empty",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a yaml genesis file, the devnet if empty",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8670",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiCacheSizeFlag = cli.IntFlag{
		Name:  "api-cache-size",
		Value: 1024,
		Usage: "number of validator views cached by the API",
	}
	apiEnableReqLoggerFlag = cli.BoolFlag{
		Name:  "api-enable-request-logger",
		Usage: "log every API request",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "log API requests slower than this, disabled if 0",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "serve prometheus metrics at /metrics",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Value: time.Second,
		Usage: "interval between simulated blocks",
	}
	maxBlocksFlag = cli.Uint64Flag{
		Name:  "max-blocks",
		Usage: "stop after this many blocks, unlimited if 0",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "file to write to, stdout if empty",
	}
)
