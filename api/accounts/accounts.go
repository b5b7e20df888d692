// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/veescrow/api/locks"
	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
)

// Account is the token balance and escrow position of an address.
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	Lock    *locks.Lock           `json:"lock"`
	Weight  *math.HexOrDecimal256 `json:"weight"`
	Epoch   uint64                `json:"epoch"`
}

type Accounts struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Accounts {
	return &Accounts{ledger: l}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	r, err := a.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	balance, err := r.TokenBalance(addr)
	if err != nil {
		return err
	}
	lock, err := r.Locked(addr)
	if err != nil {
		return err
	}
	weight, err := r.BalanceOf(addr)
	if err != nil {
		return err
	}
	epoch, err := r.UserEpoch(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance: (*math.HexOrDecimal256)(balance),
		Lock:    locks.ConvertLock(lock, r.Now()),
		Weight:  (*math.HexOrDecimal256)(weight),
		Epoch:   epoch,
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
