// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/veescrow/config"
	"github.com/vechain/veescrow/genesis"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/thor"
)

// maxClockOffset is the offset from NTP above which checkpoint timestamps are considered unreliable.
const maxClockOffset = 10 * time.Second

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	var level slog.LevelVar
	level.Set(logLevel)

	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, &level, ctx.Bool(jsonLogsFlag.Name))))
	return &level
}

func loadConfig(ctx *cli.Context) *config.Config {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

func buildGenesis(cfg *config.Config) *genesis.Genesis {
	gene, err := cfg.BuildGenesis()
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return gene
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)
	instanceDir := filepath.Join(dataDir, gene.Name())
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, dataDir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	log.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	log.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	log.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open ledger database [%v]: %v", dir, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120)
}

func openLogDB(dataDir string) *logdb.LogDB {
	dir := filepath.Join(dataDir, "events.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open ledger database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

// openDatabases opens on disk databases under the instance dir when persist is set,
// otherwise in memory ones. The returned dir is "Memory" for the latter.
func openDatabases(ctx *cli.Context, gene *genesis.Genesis) (*lvldb.LevelDB, *logdb.LogDB, string) {
	if !ctx.Bool(persistFlag.Name) {
		return openMemMainDB(), openMemLogDB(), "Memory"
	}
	instanceDir := makeInstanceDir(ctx, gene)
	return openMainDB(ctx, instanceDir), openLogDB(instanceDir), instanceDir
}

func openLedger(mainDB *lvldb.LevelDB, logDB *logdb.LogDB, gene *genesis.Genesis, cfg *config.Config) *ledger.Ledger {
	l, err := ledger.New(mainDB, logDB, gene, ledger.Options{
		Policy:          cfg.Policy(),
		PointsCacheSize: cfg.Cache.Points,
		QueryCacheMB:    cfg.Cache.QueryMB,
	})
	if err != nil {
		fatal(fmt.Sprintf("open ledger: %v", err))
	}
	return l
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		log.Warn("clock offset detected, checkpoint timestamps follow the local clock", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// handleAPITimeout cancels the request context after timeout. Websocket upgrades are exempt.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			h.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleXGenesisName tags every response with the genesis name, so clients can detect a wrong network.
func handleXGenesisName(h http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-name", name)
		h.ServeHTTP(w, r)
	})
}

// requestBodyLimit caps request bodies at 200 KB.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 200*1024)
		h.ServeHTTP(w, r)
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler, genesisName string) (string, *http.Server, net.Listener) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = handleXGenesisName(handler, genesisName)
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	return "http://" + listener.Addr().String() + "/", srv, listener
}

// handleExitSignal returns a context canceled on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// makeName creates a node name like Name/Version/os-arch/goversion.
func makeName(name, version string) string {
	return fmt.Sprintf("%s/%s/%s-%s/%s", name, version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func printStartupMessage(gene *genesis.Genesis, head thor.BlockContext, params string, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Network      [ %v ]
    Head         [ #%v @%v ]
    Params       [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		makeName("Veescrow", fullVersion()),
		gene.Name(),
		head.Number, time.Unix(int64(head.Time), 0).UTC(),
		params,
		dataDir,
		apiURL)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.veescrow")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.veescrow")
		default:
			return filepath.Join(home, ".org.vechain.veescrow")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func serve(srv *http.Server, listener net.Listener) error {
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
