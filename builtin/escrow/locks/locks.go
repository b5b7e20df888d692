// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locks

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/thor"
)

var (
	slotLocks  = thor.Slot("locked")
	slotSupply = thor.Slot("supply")
)

// Status is the lifecycle state of a participant's lock.
type Status uint8

const (
	NoLock Status = iota
	Locked
	Expired
)

func (s Status) String() string {
	switch s {
	case NoLock:
		return "none"
	case Locked:
		return "locked"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// LockedBalance is the amount a participant escrows until End.
// The zero value means no lock.
type LockedBalance struct {
	Amount *big.Int
	End    uint64
}

func (l *LockedBalance) IsEmpty() bool {
	return l.Amount == nil || l.Amount.Sign() == 0
}

// Status classifies the lock at time now.
func (l *LockedBalance) Status(now uint64) Status {
	switch {
	case l.IsEmpty():
		return NoLock
	case l.End > now:
		return Locked
	default:
		return Expired
	}
}

// Clone returns a deep copy.
func (l *LockedBalance) Clone() *LockedBalance {
	amount := new(big.Int)
	if l.Amount != nil {
		amount.Set(l.Amount)
	}
	return &LockedBalance{Amount: amount, End: l.End}
}

// Service is the lock store, keyed by participant, with the running total of locked tokens.
type Service struct {
	locks  *solidity.Mapping[thor.Address, *LockedBalance]
	supply *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		locks:  solidity.NewMapping[thor.Address, *LockedBalance](sctx, slotLocks),
		supply: solidity.NewUint256(sctx, slotSupply),
	}
}

// Get returns the lock of owner, never nil.
func (s *Service) Get(owner thor.Address) (*LockedBalance, error) {
	lock, err := s.locks.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get lock")
	}
	if lock.Amount == nil {
		lock.Amount = new(big.Int)
	}
	return lock, nil
}

// Set stores the lock. An empty lock is removed.
func (s *Service) Set(owner thor.Address, lock *LockedBalance) error {
	if lock.IsEmpty() && lock.End == 0 {
		s.locks.Delete(owner)
		return nil
	}
	if err := s.locks.Set(owner, lock); err != nil {
		return errors.Wrap(err, "failed to set lock")
	}
	return nil
}

// Supply returns the total amount of tokens held by all locks.
func (s *Service) Supply() (*big.Int, error) {
	return s.supply.Get()
}

func (s *Service) AddSupply(amount *big.Int) error {
	return s.supply.Add(amount)
}

func (s *Service) SubSupply(amount *big.Int) error {
	return s.supply.Sub(amount)
}
