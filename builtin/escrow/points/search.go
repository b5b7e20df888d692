// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package points

import (
	"math/big"

	"github.com/vechain/veescrow/thor"
)

var bigOne = big.NewInt(1)

// search returns the greatest index in [lo, hi] whose point satisfies le,
// or lo when none does. le must be monotonic over the range.
func search(lo, hi uint64, get func(uint64) (*Point, error), le func(*Point) bool) (uint64, *Point, error) {
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		p, err := get(mid)
		if err != nil {
			return 0, nil, err
		}
		if le(p) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	p, err := get(lo)
	if err != nil {
		return 0, nil, err
	}
	return lo, p, nil
}

func (s *Service) globalSearch(le func(*Point) bool) (uint64, *Point, error) {
	maxEpoch, err := s.Epoch()
	if err != nil {
		return 0, nil, err
	}
	return search(0, maxEpoch, s.get, le)
}

// FindByTime returns the latest global point recorded at or before t.
func (s *Service) FindByTime(t uint64) (uint64, *Point, error) {
	return s.globalSearch(func(p *Point) bool { return p.Ts <= t })
}

// FindByBlock returns the latest global point recorded at or before blk.
func (s *Service) FindByBlock(blk uint32) (uint64, *Point, error) {
	return s.globalSearch(func(p *Point) bool { return p.Blk <= blk })
}

func (s *Service) userSearch(owner thor.Address, le func(*Point) bool) (uint64, *Point, error) {
	maxEpoch, err := s.UserEpoch(owner)
	if err != nil {
		return 0, nil, err
	}
	get := func(epoch uint64) (*Point, error) { return s.userGet(owner, epoch) }
	epoch, p, err := search(0, maxEpoch, get, le)
	if err != nil {
		return 0, nil, err
	}
	// user epoch 0 only stands for the empty history
	if epoch == 0 {
		return 0, Zero(0, 0), nil
	}
	return epoch, p, nil
}

// UserFindByTime returns the latest point of owner recorded at or before t.
func (s *Service) UserFindByTime(owner thor.Address, t uint64) (uint64, *Point, error) {
	return s.userSearch(owner, func(p *Point) bool { return p.Ts <= t })
}

// UserFindByBlock returns the latest point of owner recorded at or before blk.
func (s *Service) UserFindByBlock(owner thor.Address, blk uint32) (uint64, *Point, error) {
	return s.userSearch(owner, func(p *Point) bool { return p.Blk <= blk })
}
