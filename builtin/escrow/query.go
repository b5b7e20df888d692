// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/vechain/veescrow/builtin/escrow/points"
	"github.com/vechain/veescrow/thor"
)

// weight scales a fixed point bias down to token units.
func weight(bias *big.Int) *big.Int {
	return new(big.Int).Quo(bias, Precision)
}

// BalanceOf returns the current weight of owner at head.
func (e *Escrow) BalanceOf(head thor.BlockContext, owner thor.Address) (*big.Int, error) {
	_, p, err := e.points.UserLast(owner)
	if err != nil {
		return nil, err
	}
	return weight(p.ValueAt(head.Time)), nil
}

// BalanceOfAt returns the weight of owner at time t, which must be before head.
func (e *Escrow) BalanceOfAt(head thor.BlockContext, owner thor.Address, t uint64) (*big.Int, error) {
	if t >= head.Time {
		return nil, ErrNotPast
	}
	_, p, err := e.points.UserFindByTime(owner, t)
	if err != nil {
		return nil, err
	}
	return weight(p.ValueAt(t)), nil
}

// BalanceOfAtBlock returns the weight of owner at block blk, which must not be after head.
func (e *Escrow) BalanceOfAtBlock(head thor.BlockContext, owner thor.Address, blk uint32) (*big.Int, error) {
	if blk > head.Number {
		return nil, ErrNotPast
	}
	t, err := e.blockTime(head, blk)
	if err != nil {
		return nil, err
	}
	_, p, err := e.points.UserFindByBlock(owner, blk)
	if err != nil {
		return nil, err
	}
	return weight(p.ValueAt(t)), nil
}

// TotalSupply returns the current total weight at head.
func (e *Escrow) TotalSupply(head thor.BlockContext) (*big.Int, error) {
	_, last, err := e.points.Last()
	if err != nil {
		return nil, err
	}
	bias, err := e.supplyAt(last, head.Time)
	if err != nil {
		return nil, err
	}
	return weight(bias), nil
}

// TotalSupplyAt returns the total weight at time t, which must be before head.
func (e *Escrow) TotalSupplyAt(head thor.BlockContext, t uint64) (*big.Int, error) {
	if t >= head.Time {
		return nil, ErrNotPast
	}
	_, p, err := e.points.FindByTime(t)
	if err != nil {
		return nil, err
	}
	bias, err := e.supplyAt(p, t)
	if err != nil {
		return nil, err
	}
	return weight(bias), nil
}

// TotalSupplyAtBlock returns the total weight at block blk, which must not be after head.
func (e *Escrow) TotalSupplyAtBlock(head thor.BlockContext, blk uint32) (*big.Int, error) {
	if blk > head.Number {
		return nil, ErrNotPast
	}
	t, err := e.blockTime(head, blk)
	if err != nil {
		return nil, err
	}
	_, p, err := e.points.FindByBlock(blk)
	if err != nil {
		return nil, err
	}
	bias, err := e.supplyAt(p, t)
	if err != nil {
		return nil, err
	}
	return weight(bias), nil
}

// supplyAt extrapolates the global point p to t, applying the slope changes
// scheduled in between. The result is not recorded.
func (e *Escrow) supplyAt(p *points.Point, t uint64) (*big.Int, error) {
	bias := new(big.Int).Set(p.Bias)
	slope := new(big.Int).Set(p.Slope)
	ts := p.Ts
	dt := new(big.Int)

	for ti := thor.RoundToWeek(p.Ts); ts < t && bias.Sign() > 0; {
		ti += thor.Week
		dSlope := new(big.Int)
		if ti > t {
			ti = t
		} else {
			var err error
			if dSlope, err = e.slopes.Delta(ti); err != nil {
				return nil, err
			}
		}
		dt.SetUint64(ti - ts)
		bias.Sub(bias, dt.Mul(dt, slope))
		slope.Add(slope, dSlope)
		clamp(bias)
		clamp(slope)
		ts = ti
	}
	return bias, nil
}

// blockTime returns the time of block blk. Blocks that recorded a global point
// are exact; the others are interpolated between the recorded blocks around
// them, or between the last one and head.
func (e *Escrow) blockTime(head thor.BlockContext, blk uint32) (uint64, error) {
	t, ok, err := e.points.BlockTime(blk)
	if err != nil {
		return 0, err
	}
	if ok {
		return t, nil
	}
	if blk == head.Number {
		return head.Time, nil
	}

	epoch, p, err := e.points.FindByBlock(blk)
	if err != nil {
		return 0, err
	}
	from, err := e.pointTime(p)
	if err != nil {
		return 0, err
	}
	maxEpoch, err := e.points.Epoch()
	if err != nil {
		return 0, err
	}
	toBlk, to := head.Number, head.Time
	if epoch < maxEpoch {
		next, err := e.points.Get(epoch + 1)
		if err != nil {
			return 0, err
		}
		if to, err = e.pointTime(next); err != nil {
			return 0, err
		}
		toBlk = next.Blk
	}
	if toBlk <= p.Blk || to <= from {
		return from, nil
	}

	d := new(big.Int).SetUint64(to - from)
	d.Mul(d, new(big.Int).SetUint64(uint64(blk-p.Blk)))
	d.Div(d, new(big.Int).SetUint64(uint64(toBlk-p.Blk)))
	return from + d.Uint64(), nil
}

// pointTime returns the time of the block that recorded p.
func (e *Escrow) pointTime(p *points.Point) (uint64, error) {
	t, ok, err := e.points.BlockTime(p.Blk)
	if err != nil {
		return 0, err
	}
	if !ok {
		return p.Ts, nil
	}
	return t, nil
}

// Epoch returns the index of the latest global point.
func (e *Escrow) Epoch() (uint64, error) {
	return e.points.Epoch()
}

// Point returns the global point at epoch.
func (e *Escrow) Point(epoch uint64) (*points.Point, error) {
	return e.points.Get(epoch)
}

// UserEpoch returns the index of owner's latest point.
func (e *Escrow) UserEpoch(owner thor.Address) (uint64, error) {
	return e.points.UserEpoch(owner)
}

// UserPoint returns owner's point at epoch.
func (e *Escrow) UserPoint(owner thor.Address, epoch uint64) (*points.Point, error) {
	return e.points.UserGet(owner, epoch)
}

// SlopeChange returns the magnitude of slope ending at the week boundary t.
func (e *Escrow) SlopeChange(t uint64) (*big.Int, error) {
	return e.slopes.Get(t)
}
