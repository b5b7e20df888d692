// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	for _, tt := range []struct {
		blockNum uint32
		index    uint32
	}{
		{0, 0},
		{1, 1},
		{math.MaxUint32, math.MaxInt32},
		{12345, 678},
	} {
		seq, err := newSequence(tt.blockNum, tt.index)
		require.NoError(t, err)
		assert.Equal(t, tt.blockNum, seq.BlockNumber())
		assert.Equal(t, tt.index, seq.Index())
		assert.True(t, seq >= firstOf(tt.blockNum))
		assert.True(t, seq <= lastOf(tt.blockNum))
		assert.True(t, seq >= 0)
	}

	_, err := newSequence(1, math.MaxInt32+1)
	assert.Error(t, err)
}
