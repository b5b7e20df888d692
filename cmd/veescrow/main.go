// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/veescrow/api"
	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/metrics"
	"github.com/vechain/veescrow/scheduler"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Veescrow",
		Usage:     "Vote escrow ledger with time decaying voting weight",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiBatchLimitFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			disableNTPCheckFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "catchup",
				Usage: "checkpoint the ledger up to the current time",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: catchupAction,
			},
			{
				Name:  "inspect",
				Usage: "print the ledger head, epoch and supply",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	cfg := loadConfig(ctx)
	gene := buildGenesis(cfg)

	if !ctx.Bool(disableNTPCheckFlag.Name) {
		go checkClockOffset()
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	mainDB, logDB, dataDir := openDatabases(ctx, gene)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	l := openLedger(mainDB, logDB, gene, cfg)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiCloser := api.New(l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		BatchLimit:           ctx.Int(apiBatchLimitFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		Version:              fullVersion(),
	})
	defer func() { log.Info("closing API..."); apiCloser() }()

	group, groupCtx := errgroup.WithContext(exitSignal)

	apiURL, apiSrv, apiListener := startAPIServer(ctx, apiHandler, gene.Name())
	group.Go(func() error { return serve(apiSrv, apiListener) })
	servers := []interface{ Close() error }{apiSrv}

	if ctx.Bool(enableMetricsFlag.Name) {
		url, srv, listener, err := newMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		metricsURL = url
		group.Go(func() error { return serve(srv, listener) })
		servers = append(servers, srv)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, srv, listener, err := newAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, l)
		if err != nil {
			return err
		}
		log.Info("admin server started", "url", url)
		group.Go(func() error { return serve(srv, listener) })
		servers = append(servers, srv)
	}

	if !cfg.Schedule.Disabled {
		sched, err := scheduler.New(l, cfg.Schedule.CheckpointCron)
		if err != nil {
			return err
		}
		// catch up whatever elapsed while the node was down
		sched.RunNow()
		sched.Start()
		defer sched.Stop()
	}

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("stopping servers...")
		for _, srv := range servers {
			srv.Close()
		}
		return nil
	})

	params := gene.Params()
	printStartupMessage(gene, l.Head(),
		fmt.Sprintf("max-time %vs, replay-limit %v, penalty %v", params.MaxTime, params.ReplayLimit, cfg.Policy() != nil),
		dataDir, apiURL)
	if metricsURL != "" {
		log.Info("metrics server started", "url", metricsURL)
	}

	return group.Wait()
}

func catchupAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)
	cfg := loadConfig(ctx)
	gene := buildGenesis(cfg)

	instanceDir := makeInstanceDir(ctx, gene)
	mainDB := openMainDB(ctx, instanceDir)
	defer mainDB.Close()
	logDB := openLogDB(instanceDir)
	defer logDB.Close()

	return catchUp(exitSignal, openLedger(mainDB, logDB, gene, cfg))
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	cfg := loadConfig(ctx)
	gene := buildGenesis(cfg)

	instanceDir := makeInstanceDir(ctx, gene)
	mainDB := openMainDB(ctx, instanceDir)
	defer mainDB.Close()
	logDB := openLogDB(instanceDir)
	defer logDB.Close()

	return inspect(os.Stdout, openLedger(mainDB, logDB, gene, cfg))
}
