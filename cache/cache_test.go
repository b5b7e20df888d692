// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStats(t *testing.T) {
	cs := &Stats{}
	cs.Hit()
	cs.Miss()
	hit, miss := cs.Counts()

	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
	assert.Equal(t, 0.5, cs.HitRate())

	cs.Hit()
	cs.Miss()
	assert.Equal(t, int64(3), cs.Hit())

	hit, miss = cs.Counts()
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)
	assert.Equal(t, 0.6, cs.HitRate())

	assert.Zero(t, (&Stats{}).HitRate())
}

func TestLRU_GetOrLoad(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)

	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(int) * 10, nil
	}

	v, err := c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = c.GetOrLoad(1, loader)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, loads)

	hit, miss := c.Stats().Counts()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	_, err = c.GetOrLoad(2, func(any) (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	assert.False(t, c.Contains(2))

	// evicts the least recently used entry
	_, _ = c.GetOrLoad(3, loader)
	_, _ = c.GetOrLoad(4, loader)
	assert.False(t, c.Contains(1))
}

func TestBlob(t *testing.T) {
	b := NewBlob(1)

	_, ok := b.Get([]byte("k"))
	assert.False(t, ok)

	b.Set([]byte("k"), []byte("v"))
	val, ok := b.Get([]byte("k"))
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	loads := 0
	loader := func() ([]byte, error) {
		loads++
		return []byte("loaded"), nil
	}
	val, err := b.GetOrLoad([]byte("x"), loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), val)
	val, err = b.GetOrLoad([]byte("x"), loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), val)
	assert.Equal(t, 1, loads)

	_, err = b.GetOrLoad([]byte("y"), func() ([]byte, error) { return nil, errors.New("boom") })
	assert.Error(t, err)

	hit, miss := b.Stats().Counts()
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(3), miss)
}
