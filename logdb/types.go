// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/veescrow/thor"
)

// Event is an escrow event as stored in the index.
// Zero Provider and Pool are stored as null.
type Event struct {
	BlockNumber uint32
	BlockTime   uint64
	Index       uint32
	Kind        string
	Provider    thor.Address
	Value       *big.Int
	Locktime    uint64
	DepositType uint8
	Pool        thor.Address
	PrevSupply  *big.Int
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive at both ends. To below From leaves it open ended.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	Provider *thor.Address
	Kinds    []string
	Range    *Range
	Options  *Options
	Order    Order // default asc
}
