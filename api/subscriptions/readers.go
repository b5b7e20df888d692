// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/veescrow/api/events"
	"github.com/vechain/veescrow/api/points"
	"github.com/vechain/veescrow/ledger"
)

// pointReader yields the global points appended since the last read.
type pointReader struct {
	ledger *ledger.Ledger
	next   uint64
}

func newPointReader(l *ledger.Ledger, fromEpoch uint64) *pointReader {
	return &pointReader{ledger: l, next: fromEpoch}
}

func (pr *pointReader) Read() ([]any, error) {
	r, err := pr.ledger.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Release()

	last, err := r.Epoch()
	if err != nil {
		return nil, err
	}
	var result []any
	for ; pr.next <= last; pr.next++ {
		p, err := r.Point(pr.next)
		if err != nil {
			return nil, err
		}
		result = append(result, points.ConvertPoint(pr.next, p))
	}
	return result, nil
}

// receiptReader yields the receipts of blocks committed since the last read.
// Blocks without events are skipped.
type receiptReader struct {
	ledger *ledger.Ledger
	next   uint32
}

func newReceiptReader(l *ledger.Ledger, fromBlock uint32) *receiptReader {
	return &receiptReader{ledger: l, next: fromBlock}
}

func (rr *receiptReader) Read() ([]any, error) {
	head := rr.ledger.Head()
	if rr.next > head.Number {
		return nil, nil
	}
	receipts, err := rr.ledger.Receipts(rr.next, head.Number)
	if err != nil {
		return nil, err
	}
	rr.next = head.Number + 1

	result := make([]any, 0, len(receipts))
	for _, r := range receipts {
		result = append(result, events.ConvertReceipt(r))
	}
	return result, nil
}
