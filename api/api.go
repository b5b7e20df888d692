// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/veescrow/api/accounts"
	"github.com/vechain/veescrow/api/checkpoints"
	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/api/locks"
	"github.com/vechain/veescrow/api/middleware"
	"github.com/vechain/veescrow/api/node"
	"github.com/vechain/veescrow/api/points"
	"github.com/vechain/veescrow/api/subscriptions"
	"github.com/vechain/veescrow/api/weights"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint32
	BatchLimit           int
	LogsLimit            uint64
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	Version              string
}

// New return api router
func New(l *ledger.Ledger, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(l).
		Mount(router, "/accounts")
	locks.New(l).
		Mount(router, "/locks")
	weights.New(l, opts.BatchLimit).
		Mount(router, "/weights")
	weights.NewSupply(l).
		Mount(router, "/supply")
	points.New(l).
		Mount(router, "/points")
	checkpoints.New(l).
		Mount(router, "/checkpoint")
	events.New(l, opts.LogsLimit).
		Mount(router, "/events")
	node.New(l, opts.Version).
		Mount(router, "/node")
	subs := subscriptions.New(l, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
