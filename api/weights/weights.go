// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weights

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/thor"
)

// Weight is a voting weight or supply with the head it was read at.
type Weight struct {
	Value *math.HexOrDecimal256 `json:"value"`
	Head  events.Block          `json:"head"`
}

type BatchRequest struct {
	Owners []thor.Address `json:"owners"`
	Time   uint64         `json:"time"`
}

type BatchResponse struct {
	Values []*math.HexOrDecimal256 `json:"values"`
	Head   events.Block            `json:"head"`
}

// selector is the optional time or block a query is evaluated at.
type selector struct {
	time     uint64
	hasTime  bool
	block    uint64
	hasBlock bool
}

func parseSelector(req *http.Request) (selector, error) {
	var (
		s   selector
		err error
		q   = req.URL.Query()
	)
	if s.time, s.hasTime, err = utils.ParseUint("time", q.Get("time"), 64); err != nil {
		return s, err
	}
	if s.block, s.hasBlock, err = utils.ParseUint("block", q.Get("block"), 32); err != nil {
		return s, err
	}
	if s.hasTime && s.hasBlock {
		return s, utils.BadRequest(errors.New("time and block are exclusive"))
	}
	return s, nil
}

func (s selector) eval(
	current func() (*big.Int, error),
	atTime func(uint64) (*big.Int, error),
	atBlock func(uint32) (*big.Int, error),
) (*big.Int, error) {
	switch {
	case s.hasTime:
		return atTime(s.time)
	case s.hasBlock:
		return atBlock(uint32(s.block))
	default:
		return current()
	}
}

type Weights struct {
	ledger *ledger.Ledger
	limit  int
}

// New creates the weights api. limit caps the owners of a batch request.
func New(l *ledger.Ledger, limit int) *Weights {
	return &Weights{ledger: l, limit: limit}
}

func (ws *Weights) handleGetWeight(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	sel, err := parseSelector(req)
	if err != nil {
		return err
	}
	r, err := ws.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	v, err := sel.eval(
		func() (*big.Int, error) { return r.BalanceOf(owner) },
		func(t uint64) (*big.Int, error) { return r.BalanceOfAt(owner, t) },
		func(blk uint32) (*big.Int, error) { return r.BalanceOfAtBlock(owner, blk) },
	)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Weight{
		Value: (*math.HexOrDecimal256)(v),
		Head:  events.ConvertBlock(r.Head()),
	})
}

func (ws *Weights) handleBatch(w http.ResponseWriter, req *http.Request) error {
	var body BatchRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Owners) == 0 {
		return utils.BadRequest(errors.New("owners: required"))
	}
	if ws.limit > 0 && len(body.Owners) > ws.limit {
		return utils.Forbidden(errors.Errorf("owners: exceeds %d", ws.limit))
	}
	r, err := ws.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	values, err := r.BalancesAt(req.Context(), body.Owners, body.Time)
	if err != nil {
		return err
	}
	out := &BatchResponse{
		Values: make([]*math.HexOrDecimal256, 0, len(values)),
		Head:   events.ConvertBlock(r.Head()),
	}
	for _, v := range values {
		out.Values = append(out.Values, (*math.HexOrDecimal256)(v))
	}
	return utils.WriteJSON(w, out)
}

func (ws *Weights) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("weights_get_weights").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleBatch))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("weights_get_weight").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetWeight))
}

// Supply serves the total voting weight.
type Supply struct {
	ledger *ledger.Ledger
}

func NewSupply(l *ledger.Ledger) *Supply {
	return &Supply{ledger: l}
}

func (s *Supply) handleGetSupply(w http.ResponseWriter, req *http.Request) error {
	sel, err := parseSelector(req)
	if err != nil {
		return err
	}
	r, err := s.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	v, err := sel.eval(r.TotalSupply, r.TotalSupplyAt, r.TotalSupplyAtBlock)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Weight{
		Value: (*math.HexOrDecimal256)(v),
		Head:  events.ConvertBlock(r.Head()),
	})
}

func (s *Supply) handleGetLocked(w http.ResponseWriter, req *http.Request) error {
	r, err := s.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	v, err := r.LockedSupply()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Weight{
		Value: (*math.HexOrDecimal256)(v),
		Head:  events.ConvertBlock(r.Head()),
	})
}

func (s *Supply) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("supply_get_supply").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSupply))
	sub.Path("/locked").
		Methods(http.MethodGet).
		Name("supply_get_locked").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetLocked))
}
