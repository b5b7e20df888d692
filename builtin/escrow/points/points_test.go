// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package points

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/cache"
	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

var owner = thor.BytesToAddress([]byte("owner"))

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("escrow")), state.New(db)))
	require.NoError(t, svc.Init(1000, 0))
	return svc
}

func point(bias, slope int64, ts uint64, blk uint32) *Point {
	return &Point{Bias: big.NewInt(bias), Slope: big.NewInt(slope), Ts: ts, Blk: blk}
}

func TestPoint_ValueAt(t *testing.T) {
	p := point(100, 2, 10, 1)

	tests := []struct {
		at   uint64
		want int64
	}{
		{5, 100},
		{10, 100},
		{20, 80},
		{59, 2},
		{60, 0},
		{1000, 0},
	}
	for _, tt := range tests {
		v := p.ValueAt(tt.at)
		assert.Zero(t, v.Cmp(big.NewInt(tt.want)), "at %d: got %v", tt.at, v)
	}

	// the point itself is not touched
	assert.Equal(t, big.NewInt(100), p.Bias)

	clone := p.Clone()
	clone.Bias.SetInt64(1)
	assert.Equal(t, big.NewInt(100), p.Bias)
}

func TestService_Genesis(t *testing.T) {
	svc := newService(t)

	epoch, last, err := svc.Last()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)
	assert.Equal(t, uint64(1000), last.Ts)
	assert.Equal(t, 0, last.Bias.Sign())

	// second init is a no-op
	require.NoError(t, svc.Init(5000, 3))
	_, last, err = svc.Last()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), last.Ts)
}

func TestService_AppendAndFind(t *testing.T) {
	svc := newService(t)

	for i := range 5 {
		epoch, err := svc.Append(point(int64(i*10), 1, 1000+uint64(i+1)*100, uint32(i+1)))
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), epoch)
	}
	// two points at the same time, different blocks
	_, err := svc.Append(point(99, 1, 1500, 6))
	require.NoError(t, err)

	tests := []struct {
		t     uint64
		epoch uint64
	}{
		{999, 0},
		{1000, 0},
		{1099, 0},
		{1100, 1},
		{1250, 2},
		{1400, 4},
		{1500, 6},
		{9999, 6},
	}
	for _, tt := range tests {
		epoch, _, err := svc.FindByTime(tt.t)
		require.NoError(t, err)
		assert.Equal(t, tt.epoch, epoch, "time %d", tt.t)
	}

	epoch, p, err := svc.FindByBlock(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), epoch)
	assert.Equal(t, uint64(1300), p.Ts)

	_, err = svc.Get(7)
	assert.ErrorIs(t, err, ErrNotFound)
	p, err = svc.Get(6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(99), p.Bias)
}

func TestService_UserHistory(t *testing.T) {
	svc := newService(t)

	epoch, p, err := svc.UserLast(owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)
	assert.Equal(t, 0, p.Bias.Sign())

	for i := range 3 {
		epoch, err := svc.UserAppend(owner, point(int64(i+1), 0, uint64(i+1)*10, uint32(i+1)))
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), epoch)
	}

	epoch, p, err = svc.UserFindByTime(owner, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)
	assert.Equal(t, 0, p.Bias.Sign())

	epoch, p, err = svc.UserFindByTime(owner, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), epoch)
	assert.Equal(t, big.NewInt(2), p.Bias)

	epoch, _, err = svc.UserFindByBlock(owner, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), epoch)

	_, err = svc.UserGet(owner, 4)
	assert.ErrorIs(t, err, ErrNotFound)

	// other participants are independent
	epoch, err = svc.UserEpoch(thor.BytesToAddress([]byte("other")))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)
}

func TestService_Cache(t *testing.T) {
	svc := newService(t)
	lru, err := cache.NewLRU(16)
	require.NoError(t, err)
	svc.WithCache(lru)

	_, err = svc.Append(point(10, 1, 1100, 1))
	require.NoError(t, err)

	// an epoch beyond the head is never cached
	_, err = svc.Get(2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, lru.Contains(uint64(2)))

	p, err := svc.Get(1)
	require.NoError(t, err)
	assert.True(t, lru.Contains(uint64(1)))

	// cached points are handed out as copies
	p.Bias.SetInt64(0)
	p, err = svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), p.Bias)

	hit, _ := lru.Stats().Counts()
	assert.Equal(t, int64(1), hit)
}
