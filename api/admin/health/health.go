// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"time"

	"github.com/vechain/veescrow/ledger"
)

type Status struct {
	Healthy        bool   `json:"healthy"`
	HeadNumber     uint32 `json:"headNumber"`
	LastCheckpoint uint64 `json:"lastCheckpoint"`
	CheckpointLag  string `json:"checkpointLag"`
	Lapsed         bool   `json:"lapsed"`
}

// Health reports whether the global point is kept close to the clock.
type Health struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Health {
	return &Health{ledger: l}
}

// Status is healthy when mutations are accepted and the last global point
// is no older than maxLag.
func (h *Health) Status(maxLag time.Duration) (*Status, error) {
	lapsed, err := h.ledger.Lapsed()
	if err != nil {
		return nil, err
	}
	r, err := h.ledger.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Release()

	last, err := r.LastPoint()
	if err != nil {
		return nil, err
	}
	var lag time.Duration
	if now := h.ledger.Now(); now > last.Ts {
		lag = time.Duration(now-last.Ts) * time.Second
	}
	return &Status{
		Healthy:        !lapsed && lag <= maxLag,
		HeadNumber:     r.Head().Number,
		LastCheckpoint: last.Ts,
		CheckpointLag:  lag.String(),
		Lapsed:         lapsed,
	}, nil
}
