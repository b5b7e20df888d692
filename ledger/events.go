// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/kv"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/thor"
)

type storedEvent struct {
	Kind        string
	Provider    thor.Address
	Value       *big.Int
	Locktime    uint64
	DepositType uint8
	Pool        thor.Address
	HasPrev     bool
	PrevSupply  *big.Int
}

type storedBlock struct {
	Time   uint64
	Events []*storedEvent
}

func blockKey(num uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, num)
}

func blockNumber(key []byte) uint32 {
	return binary.BigEndian.Uint32(key)
}

func encodeEvents(blockTime uint64, events []*escrow.Event) ([]byte, error) {
	sb := storedBlock{Time: blockTime, Events: make([]*storedEvent, 0, len(events))}
	for _, ev := range events {
		se := &storedEvent{
			Kind:        string(ev.Kind),
			Provider:    ev.Provider,
			Value:       orZero(ev.Value),
			Locktime:    ev.Locktime,
			DepositType: uint8(ev.DepositType),
			Pool:        ev.Pool,
			HasPrev:     ev.PrevSupply != nil,
			PrevSupply:  orZero(ev.PrevSupply),
		}
		sb.Events = append(sb.Events, se)
	}
	return rlp.EncodeToBytes(&sb)
}

func decodeEvents(data []byte) (uint64, []*escrow.Event, error) {
	var sb storedBlock
	if err := rlp.DecodeBytes(data, &sb); err != nil {
		return 0, nil, err
	}
	events := make([]*escrow.Event, 0, len(sb.Events))
	for _, se := range sb.Events {
		ev := &escrow.Event{
			Kind:        escrow.EventKind(se.Kind),
			Provider:    se.Provider,
			Value:       orZero(se.Value),
			Locktime:    se.Locktime,
			DepositType: escrow.DepositType(se.DepositType),
			Pool:        se.Pool,
			Ts:          sb.Time,
		}
		if se.HasPrev {
			ev.PrevSupply = orZero(se.PrevSupply)
		}
		events = append(events, ev)
	}
	return sb.Time, events, nil
}

func toLogEvents(events []*escrow.Event) []*logdb.Event {
	out := make([]*logdb.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, &logdb.Event{
			Kind:        string(ev.Kind),
			Provider:    ev.Provider,
			Value:       orZero(ev.Value),
			Locktime:    ev.Locktime,
			DepositType: uint8(ev.DepositType),
			Pool:        ev.Pool,
			PrevSupply:  ev.PrevSupply,
		})
	}
	return out
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// Receipts returns the receipts of blocks in [from, to] that emitted events, in block order.
func (l *Ledger) Receipts(from, to uint32) ([]*Receipt, error) {
	if to < from {
		return nil, nil
	}
	rng := kv.Range{Start: blockKey(from)}
	if to < math.MaxUint32 {
		rng.Limit = blockKey(to + 1)
	}
	iter := eventBucket.NewStore(l.db).Iterate(rng)
	defer iter.Release()

	var receipts []*Receipt
	for iter.Next() {
		num := blockNumber(iter.Key())
		blockTime, events, err := decodeEvents(iter.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "decode events of block %d", num)
		}
		receipts = append(receipts, &Receipt{
			Block:  thor.BlockContext{Number: num, Time: blockTime},
			Events: events,
		})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return receipts, nil
}
