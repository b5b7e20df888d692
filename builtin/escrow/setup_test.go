// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/builtin/token"
	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

var (
	genesisTime = 2800 * thor.Week

	escrowAddr = thor.BytesToAddress([]byte("escrow"))
	tokenAddr  = thor.BytesToAddress([]byte("token"))
	poolAddr   = thor.BytesToAddress([]byte("pool"))

	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	carol = thor.BytesToAddress([]byte("carol"))
)

// ether returns n whole tokens in base units.
func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

type EscrowTest struct {
	*Escrow
	t     *testing.T
	state *state.State
	token *token.Token
	blk   thor.BlockContext
}

func newTest(t *testing.T) *EscrowTest {
	return newTestWith(t, Params{PenaltyPool: poolAddr}, nil)
}

func newTestWith(t *testing.T, params Params, policy penalty.Policy) *EscrowTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	tok := token.New(tokenAddr, st)
	esc := New(escrowAddr, st, token.NewCustody(tok, escrowAddr), policy)

	genesis := thor.BlockContext{Number: 0, Time: genesisTime}
	require.NoError(t, esc.Init(genesis, params))
	for _, holder := range []thor.Address{alice, bob, carol} {
		require.NoError(t, tok.Mint(holder, ether(1_000_000)))
	}

	return &EscrowTest{Escrow: esc, t: t, state: st, token: tok, blk: genesis}
}

// next returns the context of a new block dt seconds after the current one.
func (ts *EscrowTest) next(dt uint64) thor.BlockContext {
	ts.blk.Number++
	ts.blk.Time += dt
	return ts.blk
}

// headAt returns a head at time t, with the current block number.
func (ts *EscrowTest) headAt(t uint64) thor.BlockContext {
	return thor.BlockContext{Number: ts.blk.Number, Time: t}
}

func (ts *EscrowTest) createLock(owner thor.Address, value *big.Int, unlockTime uint64) *EscrowTest {
	require.NoError(ts.t, ts.CreateLock(ts.next(0), owner, value, unlockTime))
	return ts
}

func (ts *EscrowTest) balanceAt(owner thor.Address, t uint64) *big.Int {
	b, err := ts.BalanceOfAt(ts.headAt(t+1), owner, t)
	require.NoError(ts.t, err)
	return b
}

func (ts *EscrowTest) supplyAt(t uint64) *big.Int {
	s, err := ts.TotalSupplyAt(ts.headAt(t+1), t)
	require.NoError(ts.t, err)
	return s
}

func (ts *EscrowTest) epochs(owner thor.Address) (uint64, uint64) {
	epoch, err := ts.Epoch()
	require.NoError(ts.t, err)
	userEpoch, err := ts.UserEpoch(owner)
	require.NoError(ts.t, err)
	return epoch, userEpoch
}

func (ts *EscrowTest) tokenBalance(holder thor.Address) *big.Int {
	bal, err := ts.token.BalanceOf(holder)
	require.NoError(ts.t, err)
	return bal
}

// expectedWeight is the weight of a lock of amount ending at end, seen at t.
func expectedWeight(amount *big.Int, end, t, maxTime uint64) *big.Int {
	if t >= end {
		return new(big.Int)
	}
	slope := new(big.Int).Mul(amount, Precision)
	slope.Div(slope, new(big.Int).SetUint64(maxTime))
	bias := slope.Mul(slope, new(big.Int).SetUint64(end-t))
	return bias.Quo(bias, Precision)
}

// assertWithin asserts |a-b| <= tolerance.
func assertWithin(t *testing.T, expected, actual *big.Int, tolerance int64) {
	diff := new(big.Int).Sub(expected, actual)
	assert.Truef(t, diff.CmpAbs(big.NewInt(tolerance)) <= 0, "expected %v within %d of %v", actual, tolerance, expected)
}
