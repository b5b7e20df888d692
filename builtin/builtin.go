// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the native ledger contracts to their fixed addresses.
package builtin

import (
	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/builtin/token"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

// Builtin contracts binding.
var (
	Token  = &tokenContract{thor.BytesToAddress([]byte("VeToken"))}
	Escrow = &escrowContract{thor.BytesToAddress([]byte("VotingEscrow"))}
)

type (
	tokenContract  struct{ Address thor.Address }
	escrowContract struct{ Address thor.Address }
)

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

// WithState returns the escrow over state, holding its custody in the builtin token.
// A nil policy disables early withdrawal.
func (e *escrowContract) WithState(state *state.State, policy penalty.Policy) *escrow.Escrow {
	custody := token.NewCustody(Token.WithState(state), e.Address)
	return escrow.New(e.Address, state, custody, policy)
}

// ReadOnly returns the escrow over state for queries only.
func (e *escrowContract) ReadOnly(state *state.State) *escrow.Escrow {
	return escrow.New(e.Address, state, nil, nil)
}
