// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/escrow/locks"
	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/builtin/reverts"
	"github.com/vechain/veescrow/thor"
)

//
// Getters - no state change
//

// Locked returns the lock of owner.
func (e *Escrow) Locked(owner thor.Address) (*locks.LockedBalance, error) {
	return e.locks.Get(owner)
}

// Supply returns the total amount of locked tokens.
func (e *Escrow) Supply() (*big.Int, error) {
	return e.locks.Supply()
}

//
// Setters - state change
//

// CreateLock locks value of owner's tokens until unlockTime, rounded down to a week.
func (e *Escrow) CreateLock(blk thor.BlockContext, owner thor.Address, value *big.Int, unlockTime uint64) error {
	unlockTime = thor.RoundToWeek(unlockTime)
	logger.Debug("creating lock", "owner", owner, "value", value, "unlockTime", unlockTime)

	err := e.atomic(func() error {
		lock, err := e.locks.Get(owner)
		if err != nil {
			return err
		}
		if value.Sign() <= 0 {
			return ErrZeroValue
		}
		switch lock.Status(blk.Time) {
		case locks.Locked:
			return ErrLockExists
		case locks.Expired:
			return ErrWithdrawOldTokens
		}
		if unlockTime <= blk.Time {
			return ErrUnlockTimeInPast
		}
		if unlockTime > blk.Time+e.MaxTime() {
			return ErrExceedsMaxTime
		}
		return e.deposit(blk, owner, owner, value, unlockTime, lock, CreateLockType)
	})
	if err != nil {
		e.logFailure("create lock failed", owner, err)
		return err
	}
	logger.Info("created lock", "owner", owner, "unlockTime", unlockTime)
	return nil
}

// IncreaseAmount adds value to owner's unexpired lock without changing its unlock time.
func (e *Escrow) IncreaseAmount(blk thor.BlockContext, owner thor.Address, value *big.Int) error {
	logger.Debug("increasing amount", "owner", owner, "value", value)

	err := e.atomic(func() error {
		lock, err := e.activeLock(blk, owner, value)
		if err != nil {
			return err
		}
		return e.deposit(blk, owner, owner, value, 0, lock, IncreaseLockAmount)
	})
	if err != nil {
		e.logFailure("increase amount failed", owner, err)
		return err
	}
	logger.Info("increased amount", "owner", owner)
	return nil
}

// DepositFor adds value from funder to owner's unexpired lock.
func (e *Escrow) DepositFor(blk thor.BlockContext, funder, owner thor.Address, value *big.Int) error {
	logger.Debug("depositing for", "funder", funder, "owner", owner, "value", value)

	err := e.atomic(func() error {
		lock, err := e.activeLock(blk, owner, value)
		if err != nil {
			return err
		}
		return e.deposit(blk, funder, owner, value, 0, lock, DepositForType)
	})
	if err != nil {
		e.logFailure("deposit for failed", owner, err)
		return err
	}
	logger.Info("deposited for", "funder", funder, "owner", owner)
	return nil
}

// IncreaseUnlockTime extends owner's unexpired lock to unlockTime, rounded down to a week.
func (e *Escrow) IncreaseUnlockTime(blk thor.BlockContext, owner thor.Address, unlockTime uint64) error {
	unlockTime = thor.RoundToWeek(unlockTime)
	logger.Debug("increasing unlock time", "owner", owner, "unlockTime", unlockTime)

	err := e.atomic(func() error {
		lock, err := e.locks.Get(owner)
		if err != nil {
			return err
		}
		switch lock.Status(blk.Time) {
		case locks.NoLock:
			return ErrNoLock
		case locks.Expired:
			return ErrLockExpired
		}
		if unlockTime <= lock.End {
			return ErrNotIncreasing
		}
		if unlockTime > blk.Time+e.MaxTime() {
			return ErrExceedsMaxTime
		}
		return e.deposit(blk, owner, owner, new(big.Int), unlockTime, lock, IncreaseUnlockTime)
	})
	if err != nil {
		e.logFailure("increase unlock time failed", owner, err)
		return err
	}
	logger.Info("increased unlock time", "owner", owner, "unlockTime", unlockTime)
	return nil
}

// Withdraw returns all tokens of owner's expired lock.
func (e *Escrow) Withdraw(blk thor.BlockContext, owner thor.Address) error {
	logger.Debug("withdrawing", "owner", owner)

	var value *big.Int
	err := e.atomic(func() error {
		lock, err := e.locks.Get(owner)
		if err != nil {
			return err
		}
		switch lock.Status(blk.Time) {
		case locks.NoLock:
			return ErrNothingToWithdraw
		case locks.Locked:
			return ErrLockNotExpired
		}
		value = lock.Amount
		return e.release(blk, owner, lock, value, nil)
	})
	if err != nil {
		e.logFailure("withdraw failed", owner, err)
		return err
	}
	logger.Info("withdrew", "owner", owner, "value", value)
	return nil
}

// ForceWithdraw returns owner's tokens before the lock expires.
// The penalty policy decides the share sent to the penalty pool.
func (e *Escrow) ForceWithdraw(blk thor.BlockContext, owner thor.Address) error {
	logger.Debug("force withdrawing", "owner", owner)

	var toOwner, toPool *big.Int
	err := e.atomic(func() error {
		lock, err := e.locks.Get(owner)
		if err != nil {
			return err
		}
		if lock.Status(blk.Time) == locks.NoLock {
			return ErrNothingToWithdraw
		}
		if e.policy == nil {
			return ErrEarlyWithdrawOff
		}

		var remaining uint64
		if lock.End > blk.Time {
			remaining = lock.End - blk.Time
		}
		toOwner, toPool, err = e.policy.OnEarlyWithdraw(owner, new(big.Int).Set(lock.Amount), penalty.NewFraction(remaining, e.MaxTime()))
		if err != nil {
			return errors.Wrap(err, "penalty policy")
		}
		if toOwner.Sign() < 0 || toPool.Sign() < 0 || new(big.Int).Add(toOwner, toPool).Cmp(lock.Amount) != 0 {
			return invariant("penalty split %v + %v of %v", toOwner, toPool, lock.Amount)
		}
		return e.release(blk, owner, lock, toOwner, toPool)
	})
	if err != nil {
		e.logFailure("force withdraw failed", owner, err)
		return err
	}
	logger.Info("force withdrew", "owner", owner, "value", toOwner, "penalty", toPool)
	return nil
}

// activeLock validates a deposit of value into owner's existing lock.
func (e *Escrow) activeLock(blk thor.BlockContext, owner thor.Address, value *big.Int) (*locks.LockedBalance, error) {
	lock, err := e.locks.Get(owner)
	if err != nil {
		return nil, err
	}
	if value.Sign() <= 0 {
		return nil, ErrZeroValue
	}
	switch lock.Status(blk.Time) {
	case locks.NoLock:
		return nil, ErrNoLock
	case locks.Expired:
		return nil, ErrLockExpired
	}
	return lock, nil
}

// deposit takes value from funder into owner's lock and optionally moves its end to unlockTime.
// The funds are received before the lock records them.
func (e *Escrow) deposit(
	blk thor.BlockContext,
	funder, owner thor.Address,
	value *big.Int,
	unlockTime uint64,
	lock *locks.LockedBalance,
	depositType DepositType,
) error {
	if value.Sign() > 0 {
		if err := e.asset.TransferIn(funder, value); err != nil {
			return errors.WithMessage(err, "transfer in")
		}
	}

	prevSupply, err := e.locks.Supply()
	if err != nil {
		return err
	}
	if err := e.locks.AddSupply(value); err != nil {
		return err
	}

	old := lock.Clone()
	lock.Amount.Add(lock.Amount, value)
	if unlockTime != 0 {
		lock.End = unlockTime
	}
	if err := e.locks.Set(owner, lock); err != nil {
		return err
	}
	if err := e.checkpoint(owner, old, lock, blk); err != nil {
		return err
	}

	e.emit(&Event{
		Kind:        EventDeposit,
		Provider:    owner,
		Value:       new(big.Int).Set(value),
		Locktime:    lock.End,
		DepositType: depositType,
		Ts:          blk.Time,
	})
	e.emitSupply(prevSupply, value, blk)
	return nil
}

// release zeroes owner's lock, then pays toOwner to the owner and toPool to the penalty pool.
func (e *Escrow) release(blk thor.BlockContext, owner thor.Address, lock *locks.LockedBalance, toOwner, toPool *big.Int) error {
	amount := new(big.Int).Set(lock.Amount)

	prevSupply, err := e.locks.Supply()
	if err != nil {
		return err
	}
	if err := e.locks.SubSupply(amount); err != nil {
		return invariantCause(err, "supply below lock of %v", owner)
	}

	empty := &locks.LockedBalance{Amount: new(big.Int)}
	if err := e.locks.Set(owner, empty); err != nil {
		return err
	}
	if err := e.checkpoint(owner, lock, empty, blk); err != nil {
		return err
	}

	if toOwner.Sign() > 0 {
		if err := e.asset.TransferOut(owner, toOwner); err != nil {
			return errors.WithMessage(err, "transfer out")
		}
	}
	if toPool != nil && toPool.Sign() > 0 {
		pool, err := e.pool.Get()
		if err != nil {
			return err
		}
		if pool.IsZero() {
			return ErrPenaltyPoolUndefined
		}
		if err := e.asset.TransferOut(pool, toPool); err != nil {
			return errors.WithMessage(err, "transfer penalty")
		}
		e.emit(&Event{
			Kind:     EventPenalty,
			Provider: owner,
			Value:    new(big.Int).Set(toPool),
			Pool:     pool,
			Ts:       blk.Time,
		})
	}

	e.emit(&Event{
		Kind:     EventWithdraw,
		Provider: owner,
		Value:    new(big.Int).Set(toOwner),
		Ts:       blk.Time,
	})
	e.emitSupply(prevSupply, new(big.Int).Neg(amount), blk)
	return nil
}

func (e *Escrow) emitSupply(prev, change *big.Int, blk thor.BlockContext) {
	e.emit(&Event{
		Kind:       EventSupply,
		PrevSupply: prev,
		Value:      new(big.Int).Add(prev, change),
		Ts:         blk.Time,
	})
}

func (e *Escrow) logFailure(msg string, owner thor.Address, err error) {
	switch {
	case reverts.IsRevertErr(err):
		logger.Debug(msg, "owner", owner, "reason", err)
	case IsInvariantErr(err):
		logger.Error(msg, "owner", owner, "error", err)
	default:
		logger.Warn(msg, "owner", owner, "error", err)
	}
}
