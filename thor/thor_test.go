// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x000000000000000000000000000000616c696365"`, string(data))

	var parsed Address
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, addr, parsed)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x000000000000000000000000000000616c696365", false},
		{"000000000000000000000000000000616c696365", false},
		{"1x000000000000000000000000000000616c696365", true},
		{"0x1234", true},
		{"0xzz0000000000000000000000000000616c696365", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlot(t *testing.T) {
	slot := Slot("master")
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000006d6173746572", slot.String())
	assert.False(t, slot.IsZero())
	assert.True(t, Bytes32{}.IsZero())
	assert.Panics(t, func() { Slot("a name that does not fit into one word") })
}

func TestBlake2b(t *testing.T) {
	joined := Blake2b([]byte("ab"))
	assert.Equal(t, joined, Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}

func TestKeccak256(t *testing.T) {
	// keccak256 of the empty input
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().String())
}

func TestRoundToWeek(t *testing.T) {
	assert.Equal(t, uint64(0), RoundToWeek(Week-1))
	assert.Equal(t, Week, RoundToWeek(Week))
	assert.Equal(t, 3*Week, RoundToWeek(3*Week+86400))
}
