// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the fungible asset ledger participants lock into the escrow.
// It lives in the same state as the escrow, so a reverted mutation also reverts its transfers.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/reverts"
	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

var (
	slotBalances    = thor.Slot("balances")
	slotTotalSupply = thor.Slot("total-supply")

	ErrInsufficientBalance = reverts.New("insufficient balance")
)

type Token struct {
	addr        thor.Address
	balances    *solidity.Mapping[thor.Address, *big.Int]
	totalSupply *solidity.Uint256
}

func New(addr thor.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

func (t *Token) Address() thor.Address {
	return t.addr
}

// BalanceOf returns the balance of the holder.
func (t *Token) BalanceOf(holder thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(holder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// Mint credits new tokens to the holder, used for genesis allocations.
func (t *Token) Mint(holder thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("negative amount")
	}
	bal, err := t.BalanceOf(holder)
	if err != nil {
		return err
	}
	if err := t.setBalance(holder, bal.Add(bal, amount)); err != nil {
		return err
	}
	return t.totalSupply.Add(amount)
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("negative amount")
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, toBal.Add(toBal, amount))
}

func (t *Token) setBalance(holder thor.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(holder)
		return nil
	}
	if err := t.balances.Set(holder, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
