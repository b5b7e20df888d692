// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"

	"github.com/pkg/errors"
)

// sequence orders events by block, then by their index in the block.
type sequence int64

func newSequence(blockNum uint32, index uint32) (sequence, error) {
	if index > math.MaxInt32 {
		return 0, errors.Errorf("event index %d too large", index)
	}
	return (sequence(blockNum) << 31) | sequence(index), nil
}

// firstOf returns the smallest sequence of block blockNum.
func firstOf(blockNum uint32) sequence {
	return sequence(blockNum) << 31
}

// lastOf returns the greatest sequence of block blockNum.
func lastOf(blockNum uint32) sequence {
	return firstOf(blockNum) | math.MaxInt32
}

func (s sequence) BlockNumber() uint32 {
	return uint32(s >> 31)
}

func (s sequence) Index() uint32 {
	return uint32(s & math.MaxInt32)
}
