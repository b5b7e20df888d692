// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/vechain/veescrow/thor"
)

// Custody holds tokens on behalf of an escrow account.
type Custody struct {
	token  *Token
	holder thor.Address
}

func NewCustody(token *Token, holder thor.Address) *Custody {
	return &Custody{token: token, holder: holder}
}

// TransferIn moves amount from the participant into custody.
func (c *Custody) TransferIn(participant thor.Address, amount *big.Int) error {
	return c.token.Transfer(participant, c.holder, amount)
}

// TransferOut releases amount from custody to the participant.
func (c *Custody) TransferOut(participant thor.Address, amount *big.Int) error {
	return c.token.Transfer(c.holder, participant, amount)
}

// Held returns the balance currently in custody.
func (c *Custody) Held() (*big.Int, error) {
	return c.token.BalanceOf(c.holder)
}
