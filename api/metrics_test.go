// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/api/accounts"
	"github.com/vechain/veescrow/api/subscriptions"
	"github.com/vechain/veescrow/metrics"
	"github.com/vechain/veescrow/test/testledger"
	"github.com/vechain/veescrow/thor"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	tl, err := testledger.New()
	require.NoError(t, err)
	defer tl.Close()

	router := mux.NewRouter()
	accounts.New(tl.Ledger).Mount(router, "/accounts")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	testledger.HTTPGet(t, ts.URL+"/accounts/0x")
	testledger.HTTPGet(t, ts.URL+"/accounts/"+thor.Address{}.String())
	testledger.HTTPGet(t, ts.URL+"/accounts/"+testledger.Account(0).String())

	body, _ := testledger.HTTPGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["veescrow_api_request_count"].GetMetric()
	require.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(2), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	require.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "name", labels[2].GetName())
	assert.Equal(t, "accounts_get_account", labels[2].GetValue())

	labels = m[1].GetLabel()
	require.Equal(t, 3, len(labels))
	assert.Equal(t, "400", labels[0].GetValue())
	assert.Equal(t, "accounts_get_account", labels[2].GetValue())

	_, ok := families["veescrow_api_duration_ms"]
	assert.True(t, ok)
}

func TestWebsocketMetrics(t *testing.T) {
	tl, err := testledger.New()
	require.NoError(t, err)
	defer tl.Close()

	router := mux.NewRouter()
	sub := subscriptions.New(tl.Ledger, []string{"*"}, 10)
	sub.Mount(router, "/subscriptions")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer func() {
		sub.Close()
		ts.Close()
	}()

	activeSockets := func() []float64 {
		body, _ := testledger.HTTPGet(t, ts.URL+"/metrics")
		parser := expfmt.TextParser{}
		families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
		require.NoError(t, err)
		var values []float64
		for _, m := range families["veescrow_api_active_websocket_count"].GetMetric() {
			values = append(values, m.GetGauge().GetValue())
		}
		return values
	}
	dial := func(subject string) *websocket.Conn {
		u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/" + subject}
		conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
		require.NoError(t, err)
		return conn
	}

	conn1 := dial("checkpoint")
	defer conn1.Close()
	assert.Equal(t, []float64{1}, activeSockets())

	conn2 := dial("checkpoint")
	defer conn2.Close()
	assert.Equal(t, []float64{2}, activeSockets())

	conn3 := dial("receipt")
	defer conn3.Close()
	// checkpoint sorts before receipt
	assert.Equal(t, []float64{2, 1}, activeSockets())
}
