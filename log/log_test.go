// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(NewTerminalHandler(&out, false))
	l.Info("lock created", "owner", "0xabc", "amount", big.NewInt(1234567))

	line := out.String()
	assert.True(t, strings.HasPrefix(line, "INFO ["))
	assert.Contains(t, line, "lock created")
	assert.Contains(t, line, "owner=0xabc")
	assert.Contains(t, line, "amount=1,234,567")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTerminalHandlerLevel(t *testing.T) {
	var out bytes.Buffer
	var lvl = new(slog.LevelVar)
	lvl.Set(LevelWarn)
	l := NewLogger(NewTerminalHandlerWithLevel(&out, lvl, false))

	l.Info("dropped")
	assert.Empty(t, out.String())
	l.Warn("kept")
	assert.Contains(t, out.String(), "kept")
}

func TestTerminalHandlerGroups(t *testing.T) {
	var out bytes.Buffer
	h := NewTerminalHandler(&out, false).WithAttrs([]slog.Attr{slog.String("pkg", "escrow")})
	NewLogger(h.WithGroup("lock").WithAttrs([]slog.Attr{slog.Int("epoch", 3)})).Info("created", "owner", "0xabc")

	line := out.String()
	assert.Contains(t, line, "pkg=escrow")
	assert.Contains(t, line, "lock.epoch=3")
	assert.Contains(t, line, "lock.owner=0xabc")
	assert.Equal(t, h, h.WithGroup(""))
}

func TestTerminalHandlerSharedPadding(t *testing.T) {
	var out bytes.Buffer
	root := NewTerminalHandler(&out, false)
	a := NewLogger(root.WithAttrs([]slog.Attr{slog.String("pkg", "a")}))
	b := NewLogger(root.WithAttrs([]slog.Attr{slog.String("pkg", "ledger")}))

	a.Info("first", "k", "longvalue1")
	out.Reset()
	b.Info("second", "k", "v", "z", 1)
	assert.Contains(t, out.String(), "k=v"+strings.Repeat(" ", 9)+" z=1")
}

func TestJSONHandler(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(JSONHandler(&out))
	l.Debug("checkpoint", "epoch", 3, "slope", big.NewInt(42))

	var m map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, "debug", m["lvl"])
	assert.Equal(t, "checkpoint", m["msg"])
	assert.Equal(t, "42", m["slope"])
	assert.Contains(t, m, "t")
}

func TestNewHandler(t *testing.T) {
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)

	var out bytes.Buffer
	NewLogger(NewHandler(&out, &lvl, true)).Info("withdraw", "value", big.NewInt(7))
	var m map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, "7", m["value"])

	out.Reset()
	NewLogger(NewHandler(&out, &lvl, false)).Info("withdraw", "value", big.NewInt(7))
	assert.True(t, strings.HasPrefix(out.String(), "INFO ["))
	// no color codes for a plain writer
	assert.NotContains(t, out.String(), "\x1b[")

	out.Reset()
	NewLogger(NewHandler(&out, &lvl, false)).Debug("hidden")
	assert.Empty(t, out.String())
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "escrow")

	var out bytes.Buffer
	prev := Root()
	SetDefault(NewLogger(NewTerminalHandler(&out, false)))
	defer SetDefault(prev)

	pkgLogger.With("owner", "a").Info("deposit")
	assert.Contains(t, out.String(), "pkg=escrow")
	assert.Contains(t, out.String(), "owner=a")
}

func TestOddAttributesNormalized(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(NewTerminalHandler(&out, false))
	l.Info("odd", "key")
	assert.Contains(t, out.String(), errorKey)
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(LegacyLevelCrit))
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(LegacyLevelTrace))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, "warn", LevelString(LevelWarn))
	assert.Equal(t, "WARN ", LevelAlignedString(LevelWarn))
}

func TestAppendNumbers(t *testing.T) {
	assert.Equal(t, "99999", string(appendInt64(nil, 99999)))
	assert.Equal(t, "100,000", string(appendInt64(nil, 100000)))
	assert.Equal(t, "-1,234,567", string(appendInt64(nil, -1234567)))
	assert.Equal(t, "18,446,744,073,709,551,615", FormatLogfmtUint64(^uint64(0)))

	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, "123,456,789,012,345,678,901,234,567,890", string(appendBigInt(nil, huge)))
}

func TestEscaping(t *testing.T) {
	assert.Equal(t, `"a b"`, string(appendEscapeString(nil, "a b")))
	assert.Equal(t, `plain`, string(appendEscapeString(nil, "plain")))
	assert.Equal(t, `"a\"b"`, string(appendEscapeString(nil, `a"b`)))
	assert.Equal(t, "multi\nline", escapeMessage("multi\nline"))
}
