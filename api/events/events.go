// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/thor"
)

type Events struct {
	ledger *ledger.Ledger
	limit  uint64
}

// New creates the events api. limit caps the page size.
func New(l *ledger.Ledger, limit uint64) *Events {
	return &Events{ledger: l, limit: limit}
}

func (e *Events) parseFilter(r *http.Request) (*logdb.Filter, error) {
	q := r.URL.Query()
	filter := &logdb.Filter{Order: logdb.ASC}

	if v := q.Get("provider"); v != "" {
		addr, err := thor.ParseAddress(v)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "provider"))
		}
		filter.Provider = &addr
	}
	if v := q.Get("kind"); v != "" {
		filter.Kinds = strings.Split(v, ",")
	}

	from, hasFrom, err := utils.ParseUint("from", q.Get("from"), 64)
	if err != nil {
		return nil, err
	}
	to, hasTo, err := utils.ParseUint("to", q.Get("to"), 64)
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		unit := logdb.RangeType(q.Get("unit"))
		switch unit {
		case "":
			unit = logdb.Block
		case logdb.Block, logdb.Time:
		default:
			return nil, utils.BadRequest(fmt.Errorf("unit: unsupported %q", unit))
		}
		switch {
		case !hasTo && from == 0:
			// everything
		case !hasTo:
			filter.Range = &logdb.Range{Unit: unit, From: from}
		case to < from:
			return nil, utils.BadRequest(errors.New("range: to below from"))
		default:
			filter.Range = &logdb.Range{Unit: unit, From: from, To: to}
		}
	}

	switch order := logdb.Order(q.Get("order")); order {
	case "", logdb.ASC:
	case logdb.DESC:
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: unsupported %q", order))
	}

	offset, _, err := utils.ParseUint("offset", q.Get("offset"), 64)
	if err != nil {
		return nil, err
	}
	limit, hasLimit, err := utils.ParseUint("limit", q.Get("limit"), 64)
	if err != nil {
		return nil, err
	}
	if !hasLimit {
		limit = e.limit
	}
	if e.limit > 0 && limit > e.limit {
		return nil, utils.Forbidden(fmt.Errorf("limit: exceeds %d", e.limit))
	}
	if limit > 0 || offset > 0 {
		if limit == 0 {
			limit = math.MaxInt64
		}
		filter.Options = &logdb.Options{Offset: offset, Limit: limit}
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, r *http.Request) error {
	filter, err := e.parseFilter(r)
	if err != nil {
		return err
	}
	found, err := e.ledger.FilterEvents(r.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(found))
	for _, ev := range found {
		out = append(out, ConvertIndexed(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_filter").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
