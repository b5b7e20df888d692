// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tests in this file run in order: noop first, then prometheus.

func TestNoopMetrics(t *testing.T) {
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("count1").Add(1)
	CounterVec("countVec1", []string{"zeroOrOne"}).AddWithLabel(1, map[string]string{"thisIsNonsense": "butDoesntBreak"})
	Histogram("hist1", nil).Observe(3)
	GaugeVec("gaugeVec1", []string{"zeroOrOne"}).SetWithLabel(1, nil)
	GaugeFunc("func1", "", func() float64 { return 1 })
	assert.Nil(t, Gatherer())

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("mutations")
	countVec := CounterVec("mutations_by_op", []string{"op"})
	hist := HistogramVec("latency_ms", []string{"op"}, BucketMillis)
	gauge := Gauge("epoch")
	gaugeVec := GaugeVec("locks", []string{"status"})

	var histTotal, vecTotal int
	for i := range 20 {
		op := strconv.Itoa(i % 2)
		count.Add(1)
		countVec.AddWithLabel(int64(i), map[string]string{"op": op})
		hist.ObserveWithLabels(int64(i), map[string]string{"op": op})
		gaugeVec.AddWithLabel(int64(i), map[string]string{"status": op})
		histTotal += i
		vecTotal += i
	}
	gauge.Set(42)
	// the same name returns the same meter
	Gauge("epoch").Add(1)

	supply := 7.0
	GaugeFunc("supply", "total locked", func() float64 { return supply })
	GaugeFunc("supply", "ignored", func() float64 { return 0 })

	families, err := Gatherer().Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Contains(t, byName, "veescrow_mutations")
	assert.Equal(t, float64(20), byName["veescrow_mutations"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(43), byName["veescrow_epoch"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), byName["veescrow_supply"].Metric[0].GetGauge().GetValue())

	sum := func(name string, value func(*dto.Metric) float64) float64 {
		var s float64
		for _, m := range byName[name].Metric {
			s += value(m)
		}
		return s
	}
	assert.Equal(t, float64(vecTotal), sum("veescrow_mutations_by_op", func(m *dto.Metric) float64 { return m.GetCounter().GetValue() }))
	assert.Equal(t, float64(histTotal), sum("veescrow_latency_ms", func(m *dto.Metric) float64 { return m.GetHistogram().GetSampleSum() }))
	assert.Equal(t, float64(vecTotal), sum("veescrow_locks", func(m *dto.Metric) float64 { return m.GetGauge().GetValue() }))

	// the handler serves the same registry in text format
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parser expfmt.TextParser
	parsed, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, parsed, "veescrow_supply")
	assert.Contains(t, parsed, "go_goroutines")
}
