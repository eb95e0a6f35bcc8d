// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stake/api"
	"github.com/vechain/stake/app"
	"github.com/vechain/stake/genesis"
	"github.com/vechain/stake/log"
	"github.com/vechain/stake/metrics"
	"github.com/vechain/stake/muxdb"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "staked")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	staked := cli.App{
		Version: fullVersion(),
		Name:    "staked",
		Usage:   "Validator staking engine driven by a simulated consensus engine",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiCacheSizeFlag,
			apiEnableReqLoggerFlag,
			apiSlowQueriesThresholdFlag,
			enableMetricsFlag,
			verbosityFlag,
			blockIntervalFlag,
			maxBlocksFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "dump-genesis",
				Usage:  "Print the devnet genesis in yaml",
				Flags:  []cli.Flag{outputFlag},
				Action: dumpGenesisAction,
			},
		},
	}

	if err := staked.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx *cli.Context) {
	log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), isatty.IsTerminal(os.Stderr.Fd()))
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	return genesis.NewDevnet(), nil
}

func openDatabase(ctx *cli.Context, gene *genesis.Genesis) (*muxdb.MuxDB, string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return muxdb.NewMem(), "memory", nil
	}
	dir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", errors.Wrap(err, "create instance dir")
	}
	db, err := muxdb.Open(filepath.Join(dir, "main.db"), &muxdb.Options{
		OpenFilesCacheCapacity: 64,
		ReadCacheMB:            16,
		WriteBufferMB:          16,
		Sync:                   true,
	})
	if err != nil {
		return nil, "", err
	}
	return db, dir, nil
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	db, instanceDir, err := openDatabase(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing database..."); db.Close() }()

	stakeApp, err := app.New(db.NewStore("staking"))
	if err != nil {
		return err
	}
	if _, err := stakeApp.InitChain(gene); err != nil {
		return err
	}
	p, err := newProducer(stakeApp)
	if err != nil {
		return err
	}

	handler, err := api.New(stakeApp, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      ctx.Bool(apiEnableReqLoggerFlag.Name),
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		CacheSize:            ctx.Int(apiCacheSizeFlag.Name),
	})
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.Wrap(err, "listen API addr")
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	logger.Info("staked started",
		"genesis", gene.ID().AbbrevString(),
		"network", gene.Name(),
		"height", stakeApp.Height(),
		"instance", instanceDir,
		"api", "http://"+listener.Addr().String())

	exitCtx, cancel := handleExitSignal()
	defer cancel()
	g, gctx := errgroup.WithContext(exitCtx)

	g.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		err := p.Run(gctx, ctx.Duration(blockIntervalFlag.Name), ctx.Uint64(maxBlocksFlag.Name))
		if err == nil {
			// the block limit was reached
			cancel()
		}
		return err
	})
	return g.Wait()
}

func dumpGenesisAction(ctx *cli.Context) error {
	data, err := yaml.Marshal(genesis.NewDevnet().Custom())
	if err != nil {
		return err
	}
	if path := ctx.String(outputFlag.Name); path != "" {
		return os.WriteFile(path, data, 0o600)
	}
	_, err = os.Stdout.Write(data)
	return err
}
