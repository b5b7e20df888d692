// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/thor"
)

type Params struct {
	MaxTime     uint64        `json:"maxTime"`
	ReplayLimit uint64        `json:"replayLimit"`
	PenaltyPool *thor.Address `json:"penaltyPool"`
	Week        uint64        `json:"week"`
}

type Info struct {
	Network string       `json:"network"`
	Version string       `json:"version"`
	Genesis events.Block `json:"genesis"`
	Head    events.Block `json:"head"`
	Params  Params       `json:"params"`
}

type Node struct {
	ledger  *ledger.Ledger
	version string
}

func New(l *ledger.Ledger, version string) *Node {
	return &Node{
		l,
		version,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	r, err := n.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	gene := n.ledger.Genesis()
	params := r.Params()
	pool := params.PenaltyPool
	return utils.WriteJSON(w, &Info{
		Network: gene.Name(),
		Version: n.version,
		Genesis: events.ConvertBlock(gene.Block()),
		Head:    events.ConvertBlock(r.Head()),
		Params: Params{
			MaxTime:     params.MaxTime,
			ReplayLimit: params.ReplayLimit,
			PenaltyPool: &pool,
			Week:        thor.Week,
		},
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
