// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/builtin/reverts"
	"github.com/vechain/veescrow/metrics"
)

var (
	metricOps         = metrics.LazyLoadCounterVec("ledger_ops_count", []string{"op", "result"})
	metricOpDuration  = metrics.LazyLoadHistogramVec("ledger_op_duration_ms", []string{"op"}, metrics.BucketMillis)
	metricCatchupRuns = metrics.LazyLoadHistogram("ledger_catchup_blocks", metrics.BucketWeeks)
	metricHead        = metrics.LazyLoadGauge("ledger_head_block")
	metricEpoch       = metrics.LazyLoadGauge("ledger_epoch")
)

func resultOf(err error) string {
	switch {
	case reverts.IsRevertErr(err):
		return "revert"
	case escrow.IsInvariantErr(err):
		return "invariant"
	default:
		return "error"
	}
}

func registerGaugeFuncs(l *Ledger) {
	metrics.GaugeFunc("ledger_points_cache_hit_ratio", "hit ratio of the decoded points cache", l.points.Stats().HitRate)
	metrics.GaugeFunc("ledger_query_cache_hit_ratio", "hit ratio of the historical query cache", l.queries.Stats().HitRate)
}
