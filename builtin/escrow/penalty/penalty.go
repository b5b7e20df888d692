// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package penalty splits the funds of a lock withdrawn before it expires.
package penalty

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/thor"
)

// Fraction is a non-negative ratio Num/Den.
type Fraction struct {
	Num *big.Int
	Den *big.Int
}

// NewFraction returns num/den.
func NewFraction(num, den uint64) Fraction {
	return Fraction{Num: new(big.Int).SetUint64(num), Den: new(big.Int).SetUint64(den)}
}

// Policy decides how an early withdrawal of amount is split between the owner and the penalty pool.
// remaining is the unexpired share of the maximum lock time.
type Policy interface {
	OnEarlyWithdraw(owner thor.Address, amount *big.Int, remaining Fraction) (toOwner, toPool *big.Int, err error)
}

// Linear charges the remaining fraction of the amount, capped at MaxPercent.
type Linear struct {
	MaxPercent uint64
}

func (l Linear) OnEarlyWithdraw(_ thor.Address, amount *big.Int, remaining Fraction) (*big.Int, *big.Int, error) {
	if l.MaxPercent > 100 {
		return nil, nil, errors.Errorf("invalid max penalty percent %d", l.MaxPercent)
	}
	if remaining.Den == nil || remaining.Den.Sign() <= 0 || remaining.Num == nil || remaining.Num.Sign() < 0 {
		return nil, nil, errors.New("invalid remaining fraction")
	}

	penalty := new(big.Int).Mul(amount, remaining.Num)
	penalty.Div(penalty, remaining.Den)

	limit := new(big.Int).Mul(amount, new(big.Int).SetUint64(l.MaxPercent))
	limit.Div(limit, big.NewInt(100))

	if penalty.Cmp(limit) > 0 {
		penalty = limit
	}
	return new(big.Int).Sub(amount, penalty), penalty, nil
}
