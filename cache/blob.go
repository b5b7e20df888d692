// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"slices"

	"github.com/qianbin/directcache"
)

// Blob caches byte values in a fixed size, GC-free arena.
type Blob struct {
	cache *directcache.Cache
	stats Stats
}

// NewBlob creates a blob cache of sizeMB megabytes.
func NewBlob(sizeMB int) *Blob {
	return &Blob{cache: directcache.New(sizeMB * 1024 * 1024)}
}

// Get returns a copy of the cached value.
func (b *Blob) Get(key []byte) ([]byte, bool) {
	var val []byte
	if b.cache.AdvGet(key, func(v []byte) {
		val = slices.Clone(v)
	}, false) {
		b.stats.Hit()
		return val, true
	}
	b.stats.Miss()
	return nil, false
}

func (b *Blob) Set(key, val []byte) {
	_ = b.cache.Set(key, val)
}

// GetOrLoad first try to get from cache, do load if missed.
func (b *Blob) GetOrLoad(key []byte, loader func() ([]byte, error)) ([]byte, error) {
	if val, ok := b.Get(key); ok {
		return val, nil
	}
	val, err := loader()
	if err != nil {
		return nil, err
	}
	b.Set(key, val)
	return val, nil
}

func (b *Blob) Stats() *Stats {
	return &b.stats
}
