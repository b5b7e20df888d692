// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package points

import (
	"math/big"
)

// Point is a checkpoint of a linear decay function: the weight is Bias at Ts
// and falls by Slope per second until it reaches zero.
// Bias and Slope are scaled by the fixed point precision.
type Point struct {
	Bias  *big.Int
	Slope *big.Int
	Ts    uint64
	Blk   uint32
}

// Zero returns an empty point at ts and blk.
func Zero(ts uint64, blk uint32) *Point {
	return &Point{Bias: new(big.Int), Slope: new(big.Int), Ts: ts, Blk: blk}
}

func (p *Point) normalize() *Point {
	if p.Bias == nil {
		p.Bias = new(big.Int)
	}
	if p.Slope == nil {
		p.Slope = new(big.Int)
	}
	return p
}

// ValueAt extrapolates the bias to t, floored at zero.
// Times before Ts return the recorded bias.
func (p *Point) ValueAt(t uint64) *big.Int {
	v := new(big.Int).Set(p.Bias)
	if t <= p.Ts {
		return v
	}
	dt := new(big.Int).SetUint64(t - p.Ts)
	v.Sub(v, dt.Mul(dt, p.Slope))
	if v.Sign() < 0 {
		v.SetInt64(0)
	}
	return v
}

func (p *Point) Clone() *Point {
	return &Point{
		Bias:  new(big.Int).Set(p.Bias),
		Slope: new(big.Int).Set(p.Slope),
		Ts:    p.Ts,
		Blk:   p.Blk,
	}
}
