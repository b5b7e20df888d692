// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testledger

import (
	"math/big"
	"sync/atomic"

	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/genesis"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/thor"
)

// LaunchTime is the genesis time of test ledgers, a week boundary.
var LaunchTime = 2800 * thor.Week

// PenaltyPool receives early withdraw penalties.
var PenaltyPool = thor.BytesToAddress([]byte("penalty-pool"))

// Ledger is an in-memory ledger with a manual clock, funded with the dev accounts.
type Ledger struct {
	*ledger.Ledger
	db    *lvldb.LevelDB
	logDB *logdb.LogDB
	now   atomic.Uint64
}

type Option func(*genesis.CustomGenesis, *ledger.Options)

// WithReplayLimit sets the checkpoint replay limit.
func WithReplayLimit(n uint64) Option {
	return func(g *genesis.CustomGenesis, _ *ledger.Options) {
		g.ReplayLimit = n
	}
}

// WithoutPenalty disables early withdraw.
func WithoutPenalty() Option {
	return func(_ *genesis.CustomGenesis, o *ledger.Options) {
		o.Policy = nil
	}
}

func New(opts ...Option) (*Ledger, error) {
	gen := &genesis.CustomGenesis{
		Name:        "testledger",
		LaunchTime:  LaunchTime,
		PenaltyPool: PenaltyPool,
	}
	for _, acc := range genesis.DevAccounts() {
		gen.Accounts = append(gen.Accounts, genesis.Account{Address: acc.Address, Balance: genesis.DevBalance()})
	}
	tl := &Ledger{}
	tl.now.Store(LaunchTime)
	ledgerOpts := ledger.Options{
		Policy: penalty.Linear{MaxPercent: 75},
		Clock:  tl.now.Load,
	}
	for _, opt := range opts {
		opt(gen, &ledgerOpts)
	}

	gene, err := genesis.NewCustomNet(gen)
	if err != nil {
		return nil, err
	}
	if tl.db, err = lvldb.NewMem(); err != nil {
		return nil, err
	}
	if tl.logDB, err = logdb.NewMem(); err != nil {
		tl.db.Close()
		return nil, err
	}
	if tl.Ledger, err = ledger.New(tl.db, tl.logDB, gene, ledgerOpts); err != nil {
		tl.Close()
		return nil, err
	}
	return tl, nil
}

// Now returns the clock time.
func (tl *Ledger) Now() uint64 {
	return tl.now.Load()
}

// Advance moves the clock forward by dt seconds.
func (tl *Ledger) Advance(dt uint64) {
	tl.now.Add(dt)
}

// Account returns the i-th dev account address.
func Account(i int) thor.Address {
	return genesis.DevAccounts()[i].Address
}

// Ether returns n tokens in wei.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func (tl *Ledger) Close() {
	if tl.logDB != nil {
		tl.logDB.Close()
	}
	if tl.db != nil {
		tl.db.Close()
	}
}
