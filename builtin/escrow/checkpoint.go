// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/escrow/locks"
	"github.com/vechain/veescrow/builtin/escrow/points"
	"github.com/vechain/veescrow/builtin/escrow/slopes"
	"github.com/vechain/veescrow/thor"
)

// lockPoint returns the decay function of lock as seen at now. Expired locks contribute nothing.
func (e *Escrow) lockPoint(lock *locks.LockedBalance, blk thor.BlockContext) *points.Point {
	p := points.Zero(blk.Time, blk.Number)
	if lock.Status(blk.Time) != locks.Locked {
		return p
	}
	p.Slope.Mul(lock.Amount, Precision)
	p.Slope.Div(p.Slope, new(big.Int).SetUint64(e.MaxTime()))
	p.Bias.Mul(p.Slope, new(big.Int).SetUint64(lock.End-blk.Time))
	return p
}

func clamp(v *big.Int) {
	if v.Sign() < 0 {
		v.SetInt64(0)
	}
}

// replay advances the last global point towards blk.Time week by week, applying the
// scheduled slope changes on the way. It stops after the replay limit and reports
// whether blk.Time was reached. The point is tagged with blk either way.
func (e *Escrow) replay(last *points.Point, blk thor.BlockContext) (*points.Point, bool, error) {
	if blk.Time < last.Ts {
		return nil, false, invariant("checkpoint at %d before last point at %d", blk.Time, last.Ts)
	}
	p := last.Clone()
	p.Blk = blk.Number
	t := thor.RoundToWeek(last.Ts)
	dt := new(big.Int)
	for range e.ReplayLimit() {
		t += thor.Week
		dSlope := new(big.Int)
		if t > blk.Time {
			t = blk.Time
		} else {
			var err error
			if dSlope, err = e.slopes.Delta(t); err != nil {
				return nil, false, err
			}
		}
		dt.SetUint64(t - p.Ts)
		p.Bias.Sub(p.Bias, dt.Mul(dt, p.Slope))
		p.Slope.Add(p.Slope, dSlope)
		clamp(p.Bias)
		clamp(p.Slope)
		p.Ts = t

		if t == blk.Time {
			return p, true, nil
		}
	}
	// lapsed, p stands at the last boundary reached
	return p, false, nil
}

// appendGlobal appends p as the next global point, recorded by blk.
func (e *Escrow) appendGlobal(lastEpoch uint64, p *points.Point, blk thor.BlockContext) error {
	if err := e.points.SetBlockTime(blk.Number, blk.Time); err != nil {
		return err
	}
	epoch, err := e.points.Append(p)
	if err != nil {
		return err
	}
	if epoch != lastEpoch+1 {
		return invariant("global epoch %d after %d", epoch, lastEpoch)
	}
	if p.Bias.Sign() < 0 || p.Slope.Sign() < 0 {
		return invariant("negative global point bias %v slope %v", p.Bias, p.Slope)
	}
	return nil
}

// checkpoint records the change of owner's lock from oldLock to newLock at blk.
// The global point is replayed to blk.Time first and fails with ErrCheckpointLapsed
// when that takes more weeks than the replay limit.
func (e *Escrow) checkpoint(owner thor.Address, oldLock, newLock *locks.LockedBalance, blk thor.BlockContext) error {
	uOld := e.lockPoint(oldLock, blk)
	uNew := e.lockPoint(newLock, blk)

	lastEpoch, last, err := e.points.Last()
	if err != nil {
		return err
	}
	p, caughtUp, err := e.replay(last, blk)
	if err != nil {
		return err
	}
	if !caughtUp {
		return ErrCheckpointLapsed
	}

	p.Slope.Add(p.Slope, new(big.Int).Sub(uNew.Slope, uOld.Slope))
	p.Bias.Add(p.Bias, new(big.Int).Sub(uNew.Bias, uOld.Bias))
	clamp(p.Slope)
	clamp(p.Bias)

	if err := e.appendGlobal(lastEpoch, p, blk); err != nil {
		return err
	}

	// move the scheduled end of the lock's decay
	if oldLock.End > blk.Time {
		if err := e.slopes.Unschedule(oldLock.End, uOld.Slope); err != nil {
			if errors.Is(err, slopes.ErrUnderflow) {
				return invariantCause(err, "unschedule lock of %v", owner)
			}
			return err
		}
	}
	if newLock.End > blk.Time {
		if err := e.slopes.Schedule(newLock.End, uNew.Slope); err != nil {
			return err
		}
	}

	lastUserEpoch, err := e.points.UserEpoch(owner)
	if err != nil {
		return err
	}
	userEpoch, err := e.points.UserAppend(owner, uNew)
	if err != nil {
		return err
	}
	if userEpoch != lastUserEpoch+1 {
		return invariant("user epoch %d after %d", userEpoch, lastUserEpoch)
	}
	return nil
}

// Checkpoint replays the global point towards blk.Time and records it, without any lock change.
// At most the replay limit of weeks is replayed; the returned flag tells whether blk.Time
// was reached. Repeated calls catch up a ledger idle for longer than that.
func (e *Escrow) Checkpoint(blk thor.BlockContext) (bool, error) {
	var caughtUp bool
	err := e.atomic(func() error {
		lastEpoch, last, err := e.points.Last()
		if err != nil {
			return err
		}
		p, ok, err := e.replay(last, blk)
		if err != nil {
			return err
		}
		caughtUp = ok
		return e.appendGlobal(lastEpoch, p, blk)
	})
	if err != nil {
		logger.Info("checkpoint failed", "block", blk.Number, "error", err)
		return false, err
	}
	logger.Debug("checkpoint", "block", blk.Number, "caughtUp", caughtUp)
	return caughtUp, nil
}

// atomic runs fn and drops all its state changes and events when it fails.
func (e *Escrow) atomic(fn func() error) error {
	st := e.sctx.State()
	rev := st.NewCheckpoint()
	nEvents := len(e.events)
	if err := fn(); err != nil {
		st.RevertTo(rev)
		e.events = e.events[:nEvents]
		return err
	}
	return nil
}
