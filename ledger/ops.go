// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"math/big"

	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/thor"
)

func (l *Ledger) CreateLock(owner thor.Address, value *big.Int, unlockTime uint64) (*Receipt, error) {
	return l.Execute("create_lock", func(esc *escrow.Escrow, blk thor.BlockContext) error {
		return esc.CreateLock(blk, owner, value, unlockTime)
	})
}

func (l *Ledger) IncreaseAmount(owner thor.Address, value *big.Int) (*Receipt, error) {
	return l.Execute("increase_amount", func(esc *escrow.Escrow, blk thor.BlockContext) error {
		return esc.IncreaseAmount(blk, owner, value)
	})
}

func (l *Ledger) DepositFor(funder, owner thor.Address, value *big.Int) (*Receipt, error) {
	return l.Execute("deposit_for", func(esc *escrow.Escrow, blk thor.BlockContext) error {
		return esc.DepositFor(blk, funder, owner, value)
	})
}

func (l *Ledger) IncreaseUnlockTime(owner thor.Address, unlockTime uint64) (*Receipt, error) {
	return l.Execute("increase_unlock_time", func(esc *escrow.Escrow, blk thor.BlockContext) error {
		return esc.IncreaseUnlockTime(blk, owner, unlockTime)
	})
}

func (l *Ledger) Withdraw(owner thor.Address) (*Receipt, error) {
	return l.Execute("withdraw", func(esc *escrow.Escrow, blk thor.BlockContext) error {
		return esc.Withdraw(blk, owner)
	})
}

func (l *Ledger) ForceWithdraw(owner thor.Address) (*Receipt, error) {
	return l.Execute("force_withdraw", func(esc *escrow.Escrow, blk thor.BlockContext) error {
		return esc.ForceWithdraw(blk, owner)
	})
}

// Checkpoint records a global point at the next block. The flag tells whether
// the point reached the block time or stopped at the replay limit.
func (l *Ledger) Checkpoint() (*Receipt, bool, error) {
	var caughtUp bool
	receipt, err := l.Execute("checkpoint", func(esc *escrow.Escrow, blk thor.BlockContext) (err error) {
		caughtUp, err = esc.Checkpoint(blk)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return receipt, caughtUp, nil
}

// CatchUp checkpoints until the global point reaches the block time,
// calling progress after each block. It returns the number of blocks written.
func (l *Ledger) CatchUp(ctx context.Context, progress func(blk thor.BlockContext)) (int, error) {
	n := 0
	defer func() {
		if n > 0 {
			metricCatchupRuns().Observe(int64(n))
		}
	}()
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		receipt, caughtUp, err := l.Checkpoint()
		if err != nil {
			return n, err
		}
		n++
		if progress != nil {
			progress(receipt.Block)
		}
		if caughtUp {
			return n, nil
		}
	}
}

// Lapsed reports whether the global point is further behind the clock than one
// checkpoint can replay, so mutations would fail until CatchUp runs.
func (l *Ledger) Lapsed() (bool, error) {
	r, err := l.Reader()
	if err != nil {
		return false, err
	}
	defer r.Release()

	last, err := r.LastPoint()
	if err != nil {
		return false, err
	}
	now := r.Now()
	weeks := max((now-thor.RoundToWeek(last.Ts)+thor.Week-1)/thor.Week, 1)
	return weeks > r.Params().ReplayLimit, nil
}
