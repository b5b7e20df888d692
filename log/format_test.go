// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

type hexStringer []byte

func (h hexStringer) String() string { return "0x" + string(h) }

func TestFormatAmounts(t *testing.T) {
	ether := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	thousandEther := new(big.Int).Mul(ether, big.NewInt(1000))

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"small", big.NewInt(12345), "12345"},
		{"one token", ether, "1,000,000,000,000,000,000"},
		{"beyond uint64", thousandEther, "1,000,000,000,000,000,000,000"},
		{"negative", big.NewInt(-123456), "-123,456"},
		{"nil", (*big.Int)(nil), "<nil>"},
		{"u256", uint256.NewInt(1_000_000), "1,000,000"},
		{"stringer", hexStringer("abcd"), "0xabcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(FormatSlogValue(slog.AnyValue(tt.value), nil)))
		})
	}
}

func TestFormatLogfmtUint64(t *testing.T) {
	assert.Equal(t, "99999", FormatLogfmtUint64(99999))
	assert.Equal(t, "604,800", FormatLogfmtUint64(604800))
}
