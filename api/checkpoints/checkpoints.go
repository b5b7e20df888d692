// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/api/points"
	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
)

type CheckpointResult struct {
	Receipt  *events.Receipt `json:"receipt"`
	CaughtUp bool            `json:"caughtUp"`
}

type CatchUpResult struct {
	Blocks int          `json:"blocks"`
	Head   events.Block `json:"head"`
}

type Status struct {
	Head      events.Block  `json:"head"`
	LastPoint *points.Point `json:"lastPoint"`
	Lapsed    bool          `json:"lapsed"`
}

type Checkpoints struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Checkpoints {
	return &Checkpoints{ledger: l}
}

func (c *Checkpoints) handleCheckpoint(w http.ResponseWriter, _ *http.Request) error {
	receipt, caughtUp, err := c.ledger.Checkpoint()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &CheckpointResult{
		Receipt:  events.ConvertReceipt(receipt),
		CaughtUp: caughtUp,
	})
}

func (c *Checkpoints) handleCatchUp(w http.ResponseWriter, req *http.Request) error {
	n, err := c.ledger.CatchUp(req.Context(), nil)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &CatchUpResult{
		Blocks: n,
		Head:   events.ConvertBlock(c.ledger.Head()),
	})
}

func (c *Checkpoints) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	lapsed, err := c.ledger.Lapsed()
	if err != nil {
		return err
	}
	r, err := c.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	epoch, err := r.Epoch()
	if err != nil {
		return err
	}
	last, err := r.Point(epoch)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Status{
		Head:      events.ConvertBlock(r.Head()),
		LastPoint: points.ConvertPoint(epoch, last),
		Lapsed:    lapsed,
	})
}

func (c *Checkpoints) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("checkpoint_post").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCheckpoint))
	sub.Path("/catch-up").
		Methods(http.MethodPost).
		Name("checkpoint_catch_up").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCatchUp))
	sub.Path("").
		Methods(http.MethodGet).
		Name("checkpoint_get_status").
		HandlerFunc(utils.WrapHandlerFunc(c.handleStatus))
}
