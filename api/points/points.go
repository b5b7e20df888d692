// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package points

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/api/utils"
	"github.com/vechain/veescrow/builtin/escrow/points"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/thor"
)

// Point is the json form of a global or user point.
type Point struct {
	Epoch uint64                `json:"epoch"`
	Bias  *math.HexOrDecimal256 `json:"bias"`
	Slope *math.HexOrDecimal256 `json:"slope"`
	Ts    uint64                `json:"ts"`
	Blk   uint32                `json:"blk"`
}

func ConvertPoint(epoch uint64, p *points.Point) *Point {
	return &Point{
		Epoch: epoch,
		Bias:  (*math.HexOrDecimal256)(p.Bias),
		Slope: (*math.HexOrDecimal256)(p.Slope),
		Ts:    p.Ts,
		Blk:   p.Blk,
	}
}

// SlopeChange is the slope that stops decaying at a week boundary.
type SlopeChange struct {
	Time  uint64                `json:"time"`
	Slope *math.HexOrDecimal256 `json:"slope"`
}

type Points struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Points {
	return &Points{ledger: l}
}

func notFound(err error) error {
	if errors.Is(err, points.ErrNotFound) {
		return utils.HTTPError(err, http.StatusNotFound)
	}
	return err
}

// epochParam returns the epoch query parameter, or latest when absent.
func epochParam(req *http.Request, latest uint64) (uint64, error) {
	epoch, ok, err := utils.ParseUint("epoch", req.URL.Query().Get("epoch"), 64)
	if err != nil {
		return 0, err
	}
	if !ok {
		return latest, nil
	}
	return epoch, nil
}

func (p *Points) handleGetPoint(w http.ResponseWriter, req *http.Request) error {
	r, err := p.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	latest, err := r.Epoch()
	if err != nil {
		return err
	}
	epoch, err := epochParam(req, latest)
	if err != nil {
		return err
	}
	point, err := r.Point(epoch)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, ConvertPoint(epoch, point))
}

func (p *Points) handleGetUserPoint(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req)
	if err != nil {
		return err
	}
	r, err := p.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	latest, err := r.UserEpoch(owner)
	if err != nil {
		return err
	}
	epoch, err := epochParam(req, latest)
	if err != nil {
		return err
	}
	point, err := r.UserPoint(owner, epoch)
	if err != nil {
		return notFound(err)
	}
	return utils.WriteJSON(w, ConvertPoint(epoch, point))
}

func (p *Points) handleGetSlopeChange(w http.ResponseWriter, req *http.Request) error {
	t, _, err := utils.ParseUint("time", mux.Vars(req)["time"], 64)
	if err != nil {
		return err
	}
	if t%thor.Week != 0 {
		return utils.BadRequest(errors.New("time: not a week boundary"))
	}
	r, err := p.ledger.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	slope, err := r.SlopeChange(t)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &SlopeChange{Time: t, Slope: (*math.HexOrDecimal256)(slope)})
}

func (p *Points) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("points_get_point").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPoint))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("points_get_user_point").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUserPoint))
	sub.Path("/slopes/{time:[0-9]+}").
		Methods(http.MethodGet).
		Name("points_get_slope_change").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetSlopeChange))
}
