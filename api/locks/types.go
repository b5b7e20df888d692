// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locks

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/veescrow/builtin/escrow/locks"
	"github.com/vechain/veescrow/thor"
)

type Lock struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
	End    uint64                `json:"end"`
	Status string                `json:"status"`
}

// ConvertLock converts lock, classified at the head time.
func ConvertLock(lock *locks.LockedBalance, now uint64) *Lock {
	amount := new(big.Int)
	if lock.Amount != nil {
		amount.Set(lock.Amount)
	}
	return &Lock{
		Amount: (*math.HexOrDecimal256)(amount),
		End:    lock.End,
		Status: lock.Status(now).String(),
	}
}

type CreateLock struct {
	Value      *math.HexOrDecimal256 `json:"value"`
	UnlockTime uint64                `json:"unlockTime"`
}

type IncreaseAmount struct {
	Value *math.HexOrDecimal256 `json:"value"`
}

type DepositFor struct {
	Funder *thor.Address         `json:"funder"`
	Value  *math.HexOrDecimal256 `json:"value"`
}

type IncreaseUnlockTime struct {
	UnlockTime uint64 `json:"unlockTime"`
}
