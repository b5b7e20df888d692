// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoints_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/api/checkpoints"
	"github.com/vechain/veescrow/test/testledger"
	"github.com/vechain/veescrow/thor"
)

func initCheckpointsServer(t *testing.T) (*testledger.Ledger, *httptest.Server) {
	tl, err := testledger.New(testledger.WithReplayLimit(4))
	require.NoError(t, err)
	t.Cleanup(tl.Close)

	router := mux.NewRouter()
	checkpoints.New(tl.Ledger).Mount(router, "/checkpoint")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return tl, ts
}

func getStatus(t *testing.T, url string) *checkpoints.Status {
	body, code := testledger.HTTPGet(t, url)
	require.Equal(t, http.StatusOK, code, string(body))
	var status checkpoints.Status
	require.NoError(t, json.Unmarshal(body, &status))
	return &status
}

func TestCheckpoint(t *testing.T) {
	tl, ts := initCheckpointsServer(t)

	status := getStatus(t, ts.URL+"/checkpoint")
	assert.False(t, status.Lapsed)
	assert.Equal(t, uint64(0), status.LastPoint.Epoch)

	tl.Advance(2 * thor.Week)
	body, code := testledger.HTTPPost(t, ts.URL+"/checkpoint", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	var res checkpoints.CheckpointResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.True(t, res.CaughtUp)
	assert.Equal(t, uint32(1), res.Receipt.Block.Number)
	assert.Empty(t, res.Receipt.Events)

	status = getStatus(t, ts.URL+"/checkpoint")
	assert.Equal(t, uint64(1), status.LastPoint.Epoch)
	assert.Equal(t, tl.Now(), status.LastPoint.Ts)
}

func TestCatchUp(t *testing.T) {
	tl, ts := initCheckpointsServer(t)

	// ten idle weeks, more than one checkpoint replays
	tl.Advance(10 * thor.Week)
	assert.True(t, getStatus(t, ts.URL+"/checkpoint").Lapsed)

	_, code := testledger.HTTPPost(t, ts.URL+"/checkpoint", nil)
	assert.Equal(t, http.StatusOK, code)

	body, code := testledger.HTTPPost(t, ts.URL+"/checkpoint/catch-up", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	var res checkpoints.CatchUpResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 2, res.Blocks)
	assert.Equal(t, uint32(3), res.Head.Number)

	status := getStatus(t, ts.URL+"/checkpoint")
	assert.False(t, status.Lapsed)
	assert.Equal(t, tl.Now(), status.LastPoint.Ts)

	body, code = testledger.HTTPPost(t, ts.URL+"/checkpoint/catch-up", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 1, res.Blocks)
}

func TestLapsedMutation(t *testing.T) {
	tl, ts := initCheckpointsServer(t)
	tl.Advance(10 * thor.Week)

	_, err := tl.CreateLock(testledger.Account(0), testledger.Ether(1), tl.Now()+10*thor.Week)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "checkpoint lapsed"))

	_, code := testledger.HTTPPost(t, ts.URL+"/checkpoint/catch-up", nil)
	require.Equal(t, http.StatusOK, code)
	_, err = tl.CreateLock(testledger.Account(0), testledger.Ether(1), tl.Now()+10*thor.Week)
	assert.NoError(t, err)
}
