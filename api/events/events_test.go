// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/test/testledger"
	"github.com/vechain/veescrow/thor"
)

const limit = 5

var (
	tl *testledger.Ledger
	ts *httptest.Server
)

func TestEvents(t *testing.T) {
	initEventsServer(t)

	t.Run("filterAll", testFilterAll)
	t.Run("filterByProvider", testFilterByProvider)
	t.Run("filterByKind", testFilterByKind)
	t.Run("filterByRange", testFilterByRange)
	t.Run("order", testOrder)
	t.Run("paging", testPaging)
	t.Run("badRequests", testBadRequests)
}

// three create locks, one block each, emitting a deposit and a supply event
func initEventsServer(t *testing.T) {
	var err error
	tl, err = testledger.New()
	require.NoError(t, err)
	t.Cleanup(tl.Close)

	for i := range 3 {
		tl.Advance(1000)
		_, err = tl.CreateLock(testledger.Account(i), testledger.Ether(int64(i+1)), tl.Now()+10*thor.Week)
		require.NoError(t, err)
	}

	router := mux.NewRouter()
	events.New(tl.Ledger, limit).Mount(router, "/events")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func filter(t *testing.T, query string) []*events.Event {
	body, code := testledger.HTTPGet(t, ts.URL+"/events"+query)
	require.Equal(t, http.StatusOK, code, string(body))
	var evs []*events.Event
	require.NoError(t, json.Unmarshal(body, &evs))
	return evs
}

func testFilterAll(t *testing.T) {
	evs := filter(t, "")
	require.Len(t, evs, limit)
	assert.Equal(t, "Deposit", evs[0].Kind)
	assert.Equal(t, "create_lock", evs[0].DepositType)
	assert.Equal(t, uint32(1), evs[0].Meta.BlockNumber)
	assert.Equal(t, testledger.LaunchTime+1000, evs[0].Meta.BlockTime)
	assert.Equal(t, "Supply", evs[1].Kind)
	assert.Equal(t, uint32(1), evs[1].Meta.Index)
}

func testFilterByProvider(t *testing.T) {
	evs := filter(t, "?provider="+testledger.Account(1).String())
	require.Len(t, evs, 1)
	assert.Equal(t, testledger.Account(1), *evs[0].Provider)
	assert.Equal(t, 0, (*big.Int)(evs[0].Value).Cmp(testledger.Ether(2)))
}

func testFilterByKind(t *testing.T) {
	evs := filter(t, "?kind=Supply")
	require.Len(t, evs, 3)
	assert.Equal(t, 0, (*big.Int)(evs[2].PrevSupply).Cmp(testledger.Ether(3)))
	assert.Equal(t, 0, (*big.Int)(evs[2].Value).Cmp(testledger.Ether(6)))

	assert.Len(t, filter(t, "?kind=Supply,Deposit&limit=5&offset=3"), 3)
	assert.Empty(t, filter(t, "?kind=Penalty"))
}

func testFilterByRange(t *testing.T) {
	evs := filter(t, "?kind=Deposit&from=2&to=3")
	require.Len(t, evs, 2)
	assert.Equal(t, uint32(2), evs[0].Meta.BlockNumber)

	evs = filter(t, "?kind=Deposit&from=3")
	require.Len(t, evs, 1)
	assert.Equal(t, uint32(3), evs[0].Meta.BlockNumber)

	from := strconv.FormatUint(testledger.LaunchTime+1500, 10)
	to := strconv.FormatUint(testledger.LaunchTime+2500, 10)
	evs = filter(t, "?kind=Deposit&unit=time&from="+from+"&to="+to)
	require.Len(t, evs, 1)
	assert.Equal(t, uint32(2), evs[0].Meta.BlockNumber)
}

func testOrder(t *testing.T) {
	evs := filter(t, "?kind=Deposit&order=desc")
	require.Len(t, evs, 3)
	assert.Equal(t, uint32(3), evs[0].Meta.BlockNumber)
	assert.Equal(t, uint32(1), evs[2].Meta.BlockNumber)
}

func testPaging(t *testing.T) {
	page1 := filter(t, "?limit=2")
	page2 := filter(t, "?limit=2&offset=2")
	require.Len(t, page1, 2)
	require.Len(t, page2, 2)
	assert.Equal(t, uint32(2), page2[0].Meta.BlockNumber)
}

func testBadRequests(t *testing.T) {
	tests := []struct {
		query string
		code  int
	}{
		{"?provider=0x1", http.StatusBadRequest},
		{"?from=abc", http.StatusBadRequest},
		{"?from=3&to=1", http.StatusBadRequest},
		{"?from=1&unit=epoch", http.StatusBadRequest},
		{"?order=random", http.StatusBadRequest},
		{"?limit=6", http.StatusForbidden},
	}
	for _, tt := range tests {
		_, code := testledger.HTTPGet(t, ts.URL+"/events"+tt.query)
		assert.Equal(t, tt.code, code, tt.query)
	}
}
