// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/vechain/veescrow/thor"
)

type EventKind string

const (
	EventDeposit  EventKind = "Deposit"
	EventWithdraw EventKind = "Withdraw"
	EventPenalty  EventKind = "Penalty"
	EventSupply   EventKind = "Supply"
)

// DepositType tells which operation made a deposit.
type DepositType uint8

const (
	DepositForType DepositType = iota
	CreateLockType
	IncreaseLockAmount
	IncreaseUnlockTime
)

func (d DepositType) String() string {
	switch d {
	case DepositForType:
		return "deposit_for"
	case CreateLockType:
		return "create_lock"
	case IncreaseLockAmount:
		return "increase_amount"
	case IncreaseUnlockTime:
		return "increase_unlock_time"
	default:
		return "unknown"
	}
}

// Event is a change emitted by a successful mutation.
// Supply events carry PrevSupply and Value as the new supply; Penalty events carry Pool.
type Event struct {
	Kind        EventKind
	Provider    thor.Address
	Value       *big.Int
	Locktime    uint64
	DepositType DepositType
	Pool        thor.Address
	PrevSupply  *big.Int
	Ts          uint64
}

func (e *Escrow) emit(ev *Event) {
	e.events = append(e.events, ev)
}
