// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/api/node"
	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/test/testledger"
	"github.com/vechain/veescrow/thor"
)

func TestNodeInfo(t *testing.T) {
	tl, err := testledger.New(testledger.WithReplayLimit(8))
	require.NoError(t, err)
	defer tl.Close()

	router := mux.NewRouter()
	node.New(tl.Ledger, "1.2.3").Mount(router, "/node")
	ts := httptest.NewServer(router)
	defer ts.Close()

	tl.Advance(1000)
	_, _, err = tl.Checkpoint()
	require.NoError(t, err)

	body, code := testledger.HTTPGet(t, ts.URL+"/node/info")
	require.Equal(t, http.StatusOK, code, string(body))
	var info node.Info
	require.NoError(t, json.Unmarshal(body, &info))

	assert.Equal(t, "testledger", info.Network)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, uint32(0), info.Genesis.Number)
	assert.Equal(t, testledger.LaunchTime, info.Genesis.Time)
	assert.Equal(t, uint32(1), info.Head.Number)
	assert.Equal(t, testledger.LaunchTime+1000, info.Head.Time)
	assert.Equal(t, escrow.DefaultMaxTime, info.Params.MaxTime)
	assert.Equal(t, uint64(8), info.Params.ReplayLimit)
	assert.Equal(t, testledger.PenaltyPool, *info.Params.PenaltyPool)
	assert.Equal(t, thor.Week, info.Params.Week)
}
