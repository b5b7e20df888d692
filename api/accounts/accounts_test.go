// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/api/accounts"
	"github.com/vechain/veescrow/genesis"
	"github.com/vechain/veescrow/test/datagen"
	"github.com/vechain/veescrow/test/testledger"
	"github.com/vechain/veescrow/thor"
)

func getAccount(t *testing.T, url string) *accounts.Account {
	body, code := testledger.HTTPGet(t, url)
	require.Equal(t, http.StatusOK, code, string(body))
	var acc accounts.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	return &acc
}

func TestAccount(t *testing.T) {
	tl, err := testledger.New()
	require.NoError(t, err)
	defer tl.Close()

	router := mux.NewRouter()
	accounts.New(tl.Ledger).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	defer ts.Close()

	owner := testledger.Account(2)
	url := ts.URL + "/accounts/" + owner.String()

	acc := getAccount(t, url)
	assert.Equal(t, 0, (*big.Int)(acc.Balance).Cmp(genesis.DevBalance()))
	assert.Equal(t, "none", acc.Lock.Status)
	assert.Equal(t, 0, (*big.Int)(acc.Weight).Sign())
	assert.Equal(t, uint64(0), acc.Epoch)

	amount := datagen.RandAmount(1000)
	tl.Advance(1000)
	_, err = tl.CreateLock(owner, amount, tl.Now()+52*thor.Week)
	require.NoError(t, err)

	acc = getAccount(t, url)
	assert.Equal(t, 0, (*big.Int)(acc.Balance).Cmp(new(big.Int).Sub(genesis.DevBalance(), amount)))
	assert.Equal(t, "locked", acc.Lock.Status)
	assert.Equal(t, 0, (*big.Int)(acc.Lock.Amount).Cmp(amount))
	assert.Positive(t, (*big.Int)(acc.Weight).Sign())
	assert.Equal(t, uint64(1), acc.Epoch)

	unknown := getAccount(t, ts.URL+"/accounts/"+datagen.RandAddress().String())
	assert.Equal(t, 0, (*big.Int)(unknown.Balance).Sign())

	_, code := testledger.HTTPGet(t, ts.URL+"/accounts/0xzz")
	assert.Equal(t, http.StatusBadRequest, code)
}
