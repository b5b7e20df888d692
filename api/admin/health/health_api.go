// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/veescrow/api/utils"
)

// the scheduler checkpoints weekly, allow a day of slack
const defaultMaxCheckpointLag = 8 * 24 * time.Hour

type API struct {
	healthStatus *Health
}

func NewAPI(healthStatus *Health) *API {
	return &API{
		healthStatus: healthStatus,
	}
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxLag := defaultMaxCheckpointLag
	if v := r.URL.Query().Get("maxCheckpointLag"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			maxLag = parsed
		}
	}

	acc, err := h.healthStatus.Status(maxLag)
	if err != nil {
		return err
	}

	if !acc.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, acc)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
