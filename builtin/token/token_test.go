// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/builtin/reverts"
	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

var (
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
	escrow = thor.BytesToAddress([]byte("escrow"))
)

func newTestState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestToken(t *testing.T) {
	tok := New(thor.BytesToAddress([]byte("token")), newTestState(t))

	require.NoError(t, tok.Mint(alice, big.NewInt(1000)))
	require.NoError(t, tok.Mint(bob, big.NewInt(10)))

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1010), supply)

	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(400)))

	bal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), bal)
	bal, err = tok.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(410), bal)

	err = tok.Transfer(bob, alice, big.NewInt(411))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, reverts.IsRevertErr(err))

	assert.Error(t, tok.Mint(alice, big.NewInt(-1)))
	assert.Error(t, tok.Transfer(alice, bob, big.NewInt(-1)))

	// supply is unaffected by transfers
	supply, err = tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1010), supply)
}

func TestToken_TransferAll(t *testing.T) {
	tok := New(thor.BytesToAddress([]byte("token")), newTestState(t))
	require.NoError(t, tok.Mint(alice, big.NewInt(5)))
	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(5)))

	bal, err := tok.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Sign())
}

func TestCustody(t *testing.T) {
	tok := New(thor.BytesToAddress([]byte("token")), newTestState(t))
	custody := NewCustody(tok, escrow)
	require.NoError(t, tok.Mint(alice, big.NewInt(100)))

	require.NoError(t, custody.TransferIn(alice, big.NewInt(70)))
	held, err := custody.Held()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), held)

	assert.Error(t, custody.TransferIn(alice, big.NewInt(31)))
	assert.Error(t, custody.TransferOut(bob, big.NewInt(71)))

	require.NoError(t, custody.TransferOut(bob, big.NewInt(20)))
	bal, err := tok.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), bal)
	held, err = custody.Held()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), held)
}
