// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/thor"
)

// Meta locates an event in the ledger.
type Meta struct {
	BlockNumber uint32 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
	Index       uint32 `json:"index"`
}

// Event is the json form of an escrow event.
type Event struct {
	Kind        string                `json:"kind"`
	Provider    *thor.Address         `json:"provider,omitempty"`
	Value       *math.HexOrDecimal256 `json:"value"`
	Locktime    uint64                `json:"locktime,omitempty"`
	DepositType string                `json:"depositType,omitempty"`
	Pool        *thor.Address         `json:"pool,omitempty"`
	PrevSupply  *math.HexOrDecimal256 `json:"prevSupply,omitempty"`
	Meta        *Meta                 `json:"meta,omitempty"`
}

func optAddress(addr thor.Address) *thor.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

func optBig(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v)
}

func depositType(kind string, dt escrow.DepositType) string {
	if kind != string(escrow.EventDeposit) {
		return ""
	}
	return dt.String()
}

// ConvertEvent converts an event just emitted by an operation.
func ConvertEvent(ev *escrow.Event) *Event {
	return &Event{
		Kind:        string(ev.Kind),
		Provider:    optAddress(ev.Provider),
		Value:       optBig(ev.Value),
		Locktime:    ev.Locktime,
		DepositType: depositType(string(ev.Kind), ev.DepositType),
		Pool:        optAddress(ev.Pool),
		PrevSupply:  optBig(ev.PrevSupply),
	}
}

// ConvertIndexed converts an event read from the index.
func ConvertIndexed(ev *logdb.Event) *Event {
	return &Event{
		Kind:        ev.Kind,
		Provider:    optAddress(ev.Provider),
		Value:       optBig(ev.Value),
		Locktime:    ev.Locktime,
		DepositType: depositType(ev.Kind, escrow.DepositType(ev.DepositType)),
		Pool:        optAddress(ev.Pool),
		PrevSupply:  optBig(ev.PrevSupply),
		Meta: &Meta{
			BlockNumber: ev.BlockNumber,
			BlockTime:   ev.BlockTime,
			Index:       ev.Index,
		},
	}
}

// Block is the json form of a block context.
type Block struct {
	Number uint32 `json:"number"`
	Time   uint64 `json:"time"`
}

func ConvertBlock(blk thor.BlockContext) Block {
	return Block{Number: blk.Number, Time: blk.Time}
}

// Receipt is the json form of a committed operation.
type Receipt struct {
	Block  Block    `json:"block"`
	Events []*Event `json:"events"`
}

func ConvertReceipt(r *ledger.Receipt) *Receipt {
	out := &Receipt{
		Block:  ConvertBlock(r.Block),
		Events: make([]*Event, 0, len(r.Events)),
	}
	for _, ev := range r.Events {
		out.Events = append(out.Events, ConvertEvent(ev))
	}
	return out
}
