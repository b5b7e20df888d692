// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin"
	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/builtin/escrow/locks"
	"github.com/vechain/veescrow/builtin/escrow/points"
	"github.com/vechain/veescrow/cache"
	"github.com/vechain/veescrow/co"
	"github.com/vechain/veescrow/kv"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

// Reader answers queries against one committed head.
// A Reader is not safe for concurrent use; take one per goroutine.
type Reader struct {
	snap    kv.Snapshot
	src     kv.Getter
	head    thor.BlockContext
	now     uint64
	state   *state.State
	escrow  *escrow.Escrow
	points  *cache.LRU
	queries *cache.Blob
}

// Reader returns a reader over the latest committed block. It must be released.
func (l *Ledger) Reader() (*Reader, error) {
	snap := l.db.Snapshot()
	head, err := loadHead(propBucket.NewGetter(snap))
	if err != nil {
		snap.Release()
		return nil, errors.Wrap(err, "load head")
	}
	src := stateBucket.NewGetter(snap)
	st := state.New(src)
	return &Reader{
		snap:    snap,
		src:     src,
		head:    head,
		now:     max(l.clock(), head.Time),
		state:   st,
		escrow:  builtin.Escrow.ReadOnly(st).WithCache(l.points),
		points:  l.points,
		queries: l.queries,
	}, nil
}

// Release releases the underlying snapshot.
func (r *Reader) Release() {
	r.snap.Release()
}

// Head returns the block the reader observes.
func (r *Reader) Head() thor.BlockContext {
	return r.head
}

// Now returns the time current reads are evaluated at: the ledger clock,
// never before the head.
func (r *Reader) Now() uint64 {
	return r.now
}

// current is the head as seen at the reader's clock.
func (r *Reader) current() thor.BlockContext {
	return thor.BlockContext{Number: r.head.Number, Time: r.now}
}

// Params returns the escrow parameters.
func (r *Reader) Params() escrow.Params {
	pool, err := r.escrow.PenaltyPool()
	if err != nil {
		logger.Warn("failed to read penalty pool", "error", err)
	}
	return escrow.Params{
		MaxTime:     r.escrow.MaxTime(),
		ReplayLimit: r.escrow.ReplayLimit(),
		PenaltyPool: pool,
	}
}

func (r *Reader) Locked(owner thor.Address) (*locks.LockedBalance, error) {
	return r.escrow.Locked(owner)
}

// LockedSupply returns the total amount of tokens held by the escrow.
func (r *Reader) LockedSupply() (*big.Int, error) {
	return r.escrow.Supply()
}

// TokenBalance returns the unlocked token balance of holder.
func (r *Reader) TokenBalance(holder thor.Address) (*big.Int, error) {
	return builtin.Token.WithState(r.state).BalanceOf(holder)
}

// BalanceOf returns the weight of owner now.
func (r *Reader) BalanceOf(owner thor.Address) (*big.Int, error) {
	return r.escrow.BalanceOf(r.current(), owner)
}

// BalanceOfAt returns the weight of owner at time t before the head.
// The results are final and cached across readers.
func (r *Reader) BalanceOfAt(owner thor.Address, t uint64) (*big.Int, error) {
	if t >= r.head.Time {
		return nil, escrow.ErrNotPast
	}
	key := append([]byte{'b'}, owner.Bytes()...)
	key = binary.BigEndian.AppendUint64(key, t)
	return r.cached(key, func() (*big.Int, error) {
		return r.escrow.BalanceOfAt(r.head, owner, t)
	})
}

func (r *Reader) BalanceOfAtBlock(owner thor.Address, blk uint32) (*big.Int, error) {
	return r.escrow.BalanceOfAtBlock(r.head, owner, blk)
}

// TotalSupply returns the total weight now.
func (r *Reader) TotalSupply() (*big.Int, error) {
	return r.escrow.TotalSupply(r.current())
}

// TotalSupplyAt returns the total weight at time t before the head.
// The results are final and cached across readers.
func (r *Reader) TotalSupplyAt(t uint64) (*big.Int, error) {
	if t >= r.head.Time {
		return nil, escrow.ErrNotPast
	}
	key := binary.BigEndian.AppendUint64([]byte{'s'}, t)
	return r.cached(key, func() (*big.Int, error) {
		return r.escrow.TotalSupplyAt(r.head, t)
	})
}

func (r *Reader) TotalSupplyAtBlock(blk uint32) (*big.Int, error) {
	return r.escrow.TotalSupplyAtBlock(r.head, blk)
}

func (r *Reader) cached(key []byte, load func() (*big.Int, error)) (*big.Int, error) {
	val, err := r.queries.GetOrLoad(key, func() ([]byte, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		return v.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(val), nil
}

// BalancesAt returns the weights of owners at time t before the head, computed in parallel.
func (r *Reader) BalancesAt(ctx context.Context, owners []thor.Address, t uint64) ([]*big.Int, error) {
	if t >= r.head.Time {
		return nil, escrow.ErrNotPast
	}
	results := make([]*big.Int, len(owners))
	errs := make([]error, len(owners))
	co.Parallel(func(queue co.Enqueue) {
		for i, owner := range owners {
			if ctx.Err() != nil {
				return
			}
			queue(func() {
				// State is not safe for concurrent use, each work reads through its own.
				sub := &Reader{
					snap:    r.snap,
					head:    r.head,
					escrow:  builtin.Escrow.ReadOnly(state.New(r.src)).WithCache(r.points),
					queries: r.queries,
				}
				results[i], errs[i] = sub.BalanceOfAt(owner, t)
			})
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (r *Reader) Epoch() (uint64, error) {
	return r.escrow.Epoch()
}

func (r *Reader) Point(epoch uint64) (*points.Point, error) {
	return r.escrow.Point(epoch)
}

// LastPoint returns the latest global point.
func (r *Reader) LastPoint() (*points.Point, error) {
	epoch, err := r.escrow.Epoch()
	if err != nil {
		return nil, err
	}
	return r.escrow.Point(epoch)
}

func (r *Reader) UserEpoch(owner thor.Address) (uint64, error) {
	return r.escrow.UserEpoch(owner)
}

func (r *Reader) UserPoint(owner thor.Address, epoch uint64) (*points.Point, error) {
	return r.escrow.UserPoint(owner, epoch)
}

func (r *Reader) SlopeChange(t uint64) (*big.Int, error) {
	return r.escrow.SlopeChange(t)
}

// FilterEvents queries the event index.
func (l *Ledger) FilterEvents(ctx context.Context, filter *logdb.Filter) ([]*logdb.Event, error) {
	if l.logDB == nil {
		return nil, errors.New("event index disabled")
	}
	return l.logDB.FilterEvents(ctx, filter)
}
