// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis defines the initial ledger state: token allocations and escrow parameters.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin"
	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/kv"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	name    string
	params  escrow.Params
}

// Build builds the genesis state changes over src.
func (g *Genesis) Build(src kv.Getter) (*state.Stage, thor.BlockContext, error) {
	return g.builder.Build(src)
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Block returns the genesis block context.
func (g *Genesis) Block() thor.BlockContext {
	return thor.BlockContext{Number: 0, Time: g.builder.timestamp}
}

// Params returns the escrow parameters written at genesis.
func (g *Genesis) Params() escrow.Params {
	return g.params
}

// Account is a genesis token allocation.
type Account struct {
	Address thor.Address
	Balance *big.Int
}

func newGenesis(name string, launchTime uint64, accounts []Account, params escrow.Params) *Genesis {
	builder := new(Builder).
		Timestamp(launchTime).
		State(func(st *state.State, _ thor.BlockContext) error {
			tok := builtin.Token.WithState(st)
			for _, acc := range accounts {
				if acc.Balance == nil || acc.Balance.Sign() == 0 {
					continue
				}
				if acc.Balance.Sign() < 0 {
					return errors.Errorf("negative balance for %v", acc.Address)
				}
				if err := tok.Mint(acc.Address, acc.Balance); err != nil {
					return err
				}
			}
			return nil
		}).
		State(func(st *state.State, genesis thor.BlockContext) error {
			return builtin.Escrow.ReadOnly(st).Init(genesis, params)
		})
	return &Genesis{builder: builder, name: name, params: params}
}
