// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locks

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
)

type Locks struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Locks {
	return &Locks{ledger: l}
}

func (l *Locks) handleGetLock(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	r, err := l.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	lock, err := r.Locked(owner)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertLock(lock, r.Now()))
}

func requireValue(v *big.Int) error {
	if v == nil {
		return utils.BadRequest(errors.New("value: required"))
	}
	return nil
}

func writeReceipt(w http.ResponseWriter, receipt *ledger.Receipt, err error) error {
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, events.ConvertReceipt(receipt))
}

func (l *Locks) handleCreate(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	var body CreateLock
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := requireValue((*big.Int)(body.Value)); err != nil {
		return err
	}
	receipt, err := l.ledger.CreateLock(owner, (*big.Int)(body.Value), body.UnlockTime)
	return writeReceipt(w, receipt, err)
}

func (l *Locks) handleIncreaseAmount(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	var body IncreaseAmount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := requireValue((*big.Int)(body.Value)); err != nil {
		return err
	}
	receipt, err := l.ledger.IncreaseAmount(owner, (*big.Int)(body.Value))
	return writeReceipt(w, receipt, err)
}

func (l *Locks) handleDepositFor(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	var body DepositFor
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Funder == nil {
		return utils.BadRequest(errors.New("funder: required"))
	}
	if err := requireValue((*big.Int)(body.Value)); err != nil {
		return err
	}
	receipt, err := l.ledger.DepositFor(*body.Funder, owner, (*big.Int)(body.Value))
	return writeReceipt(w, receipt, err)
}

func (l *Locks) handleIncreaseUnlockTime(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	var body IncreaseUnlockTime
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := l.ledger.IncreaseUnlockTime(owner, body.UnlockTime)
	return writeReceipt(w, receipt, err)
}

func (l *Locks) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	receipt, err := l.ledger.Withdraw(owner)
	return writeReceipt(w, receipt, err)
}

func (l *Locks) handleForceWithdraw(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	receipt, err := l.ledger.ForceWithdraw(owner)
	return writeReceipt(w, receipt, err)
}

func (l *Locks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("locks_get_lock").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetLock))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("locks_create_lock").
		HandlerFunc(utils.WrapHandlerFunc(l.handleCreate))
	sub.Path("/{address}/amount").
		Methods(http.MethodPost).
		Name("locks_increase_amount").
		HandlerFunc(utils.WrapHandlerFunc(l.handleIncreaseAmount))
	sub.Path("/{address}/deposit").
		Methods(http.MethodPost).
		Name("locks_deposit_for").
		HandlerFunc(utils.WrapHandlerFunc(l.handleDepositFor))
	sub.Path("/{address}/unlock-time").
		Methods(http.MethodPost).
		Name("locks_increase_unlock_time").
		HandlerFunc(utils.WrapHandlerFunc(l.handleIncreaseUnlockTime))
	sub.Path("/{address}/withdraw").
		Methods(http.MethodPost).
		Name("locks_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(l.handleWithdraw))
	sub.Path("/{address}/force-withdraw").
		Methods(http.MethodPost).
		Name("locks_force_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(l.handleForceWithdraw))
}
