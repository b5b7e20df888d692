// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow implements the vote-escrow ledger.
//
// Participants lock tokens until a week aligned unlock time and receive weight
// that decays linearly to zero at unlock. The ledger records every change as a
// checkpoint of the participant's and the aggregate decay function, so the
// weight of any participant and the total weight can be answered for any past
// time or block.
package escrow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/escrow/locks"
	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/builtin/escrow/points"
	"github.com/vechain/veescrow/builtin/escrow/slopes"
	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/cache"
	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

const (
	DefaultMaxTime     = 4 * thor.Year
	DefaultReplayLimit = 255
)

var (
	logger = log.WithContext("pkg", "escrow")

	// Precision is the fixed point scale of biases and slopes.
	Precision = big.NewInt(1e18)

	slotPenaltyPool = thor.Slot("penalty-pool")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Asset moves the locked tokens between participants and the escrow.
type Asset interface {
	TransferIn(participant thor.Address, amount *big.Int) error
	TransferOut(participant thor.Address, amount *big.Int) error
}

// Params are the parameters fixed at genesis. Zero values keep the defaults.
type Params struct {
	MaxTime     uint64
	ReplayLimit uint64
	PenaltyPool thor.Address
}

// Escrow implements the lock manager and the historical queries over one state.
type Escrow struct {
	sctx *solidity.Context

	locks  *locks.Service
	points *points.Service
	slopes *slopes.Service
	pool   *solidity.Address

	asset  Asset
	policy penalty.Policy

	maxTime     *solidity.ConfigVariable
	replayLimit *solidity.ConfigVariable

	events []*Event
}

// New creates an escrow over the state. asset may be nil for read only use,
// a nil policy disables early withdrawal.
func New(addr thor.Address, state *state.State, asset Asset, policy penalty.Policy) *Escrow {
	sctx := solidity.NewContext(addr, state)

	maxTime := solidity.NewConfigVariable("escrow-max-time", DefaultMaxTime)
	replayLimit := solidity.NewConfigVariable("escrow-replay-limit", DefaultReplayLimit)
	maxTime.Override(sctx)
	replayLimit.Override(sctx)

	return &Escrow{
		sctx:        sctx,
		locks:       locks.New(sctx),
		points:      points.New(sctx),
		slopes:      slopes.New(sctx),
		pool:        solidity.NewAddress(sctx, slotPenaltyPool),
		asset:       asset,
		policy:      policy,
		maxTime:     maxTime,
		replayLimit: replayLimit,
	}
}

// WithCache shares a cache of decoded points. Only escrows over committed state may share one.
func (e *Escrow) WithCache(c *cache.LRU) *Escrow {
	e.points.WithCache(c)
	return e
}

// Init writes the genesis point and parameters.
func (e *Escrow) Init(genesis thor.BlockContext, params Params) error {
	if params.MaxTime != 0 {
		if params.MaxTime < thor.Week {
			return errors.Errorf("max time %d shorter than a week", params.MaxTime)
		}
		e.maxTime.Store(e.sctx, params.MaxTime)
	}
	if params.ReplayLimit != 0 {
		e.replayLimit.Store(e.sctx, params.ReplayLimit)
	}
	if !params.PenaltyPool.IsZero() {
		e.pool.Set(&params.PenaltyPool)
	}
	return e.points.Init(genesis.Time, genesis.Number)
}

func (e *Escrow) Address() thor.Address {
	return e.sctx.Address()
}

// MaxTime returns the maximum lock duration in seconds.
func (e *Escrow) MaxTime() uint64 {
	return e.maxTime.Get()
}

// ReplayLimit returns the maximum number of weeks one checkpoint replays.
func (e *Escrow) ReplayLimit() uint64 {
	return e.replayLimit.Get()
}

// PenaltyPool returns the receiver of early withdrawal penalties.
func (e *Escrow) PenaltyPool() (thor.Address, error) {
	return e.pool.Get()
}

// Events drains the events emitted since the last call.
func (e *Escrow) Events() []*Event {
	events := e.events
	e.events = nil
	return events
}
