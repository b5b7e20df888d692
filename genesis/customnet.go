// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name        string
	LaunchTime  uint64
	Accounts    []Account
	MaxTime     uint64
	ReplayLimit uint64
	PenaltyPool thor.Address
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.LaunchTime == 0 {
		return nil, errors.New("launch time must be set")
	}
	if gen.MaxTime != 0 && gen.MaxTime < thor.Week {
		return nil, errors.Errorf("max time %d shorter than a week", gen.MaxTime)
	}
	seen := make(map[thor.Address]bool, len(gen.Accounts))
	for _, acc := range gen.Accounts {
		if seen[acc.Address] {
			return nil, errors.Errorf("duplicated account %v", acc.Address)
		}
		seen[acc.Address] = true
	}

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	return newGenesis(name, gen.LaunchTime, gen.Accounts, escrow.Params{
		MaxTime:     gen.MaxTime,
		ReplayLimit: gen.ReplayLimit,
		PenaltyPool: gen.PenaltyPool,
	}), nil
}
