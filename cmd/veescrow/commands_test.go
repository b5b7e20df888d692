// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/test/testledger"
	"github.com/vechain/veescrow/thor"
)

func TestPendingCheckpoints(t *testing.T) {
	base := 100 * thor.Week
	tests := []struct {
		name   string
		lastTs uint64
		now    uint64
		limit  uint64
		want   uint64
	}{
		{"same time", base, base, 4, 1},
		{"within week", base + 10, base + 1000, 4, 1},
		{"at limit", base, base + 4*thor.Week, 4, 1},
		{"beyond limit", base, base + 4*thor.Week + 1, 4, 2},
		{"many weeks", base, base + 10*thor.Week, 4, 3},
		{"clock behind", base + thor.Week, base, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pendingCheckpoints(tt.lastTs, tt.now, tt.limit))
		})
	}
}

func TestCatchUpAndInspect(t *testing.T) {
	tl, err := testledger.New(testledger.WithReplayLimit(4))
	require.NoError(t, err)
	defer tl.Close()

	tl.Advance(10 * thor.Week)
	lapsed, err := tl.Lapsed()
	require.NoError(t, err)
	assert.True(t, lapsed)

	require.NoError(t, catchUp(context.Background(), tl.Ledger))

	lapsed, err = tl.Lapsed()
	require.NoError(t, err)
	assert.False(t, lapsed)
	assert.True(t, tl.Head().Number > 0)

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, tl.Ledger))
	out := buf.String()
	assert.Contains(t, out, "Genesis        [ testledger ]")
	assert.Contains(t, out, "Lapsed         [ false ]")
	assert.Contains(t, out, "replay-limit 4")
}

func TestCatchUpCanceled(t *testing.T) {
	tl, err := testledger.New(testledger.WithReplayLimit(4))
	require.NoError(t, err)
	defer tl.Close()

	tl.Advance(10 * thor.Week)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, catchUp(ctx, tl.Ledger), context.Canceled)
}

func TestMakeName(t *testing.T) {
	name := makeName("Veescrow", "1.0.0-abc")
	assert.Equal(t, "Veescrow/1.0.0-abc/"+runtime.GOOS+"-"+runtime.GOARCH+"/"+runtime.Version(), name)
}
