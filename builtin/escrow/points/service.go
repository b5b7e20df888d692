// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package points

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/cache"
	"github.com/vechain/veescrow/thor"
)

var ErrNotFound = errors.New("point not found")

var (
	slotEpoch      = thor.Slot("epoch")
	slotHistory    = thor.Slot("point-history")
	slotUserEpoch  = thor.Slot("user-point-epoch")
	slotUserPoints = thor.Slot("user-point-history")
	slotBlockTime  = thor.Slot("block-time")
)

type userKey struct {
	owner thor.Address
	epoch uint64
}

func (k userKey) Bytes() []byte {
	b := make([]byte, 0, thor.AddressLength+8)
	b = append(b, k.owner.Bytes()...)
	return binary.BigEndian.AppendUint64(b, k.epoch)
}

// Service keeps the append-only global and per-participant point histories.
// Global epoch 0 is the genesis point; user epoch 0 means no history.
type Service struct {
	epoch     *solidity.Uint256
	history   *solidity.Mapping[solidity.Uint64Key, *Point]
	userEpoch *solidity.Mapping[thor.Address, uint64]
	user      *solidity.Mapping[userKey, *Point]
	blockTime *solidity.Mapping[solidity.Uint64Key, uint64]

	cache *cache.LRU
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		epoch:     solidity.NewUint256(sctx, slotEpoch),
		history:   solidity.NewMapping[solidity.Uint64Key, *Point](sctx, slotHistory),
		userEpoch: solidity.NewMapping[thor.Address, uint64](sctx, slotUserEpoch),
		user:      solidity.NewMapping[userKey, *Point](sctx, slotUserPoints),
		blockTime: solidity.NewMapping[solidity.Uint64Key, uint64](sctx, slotBlockTime),
	}
}

// WithCache attaches a cache for decoded points.
// Only services over committed state may share a cache.
func (s *Service) WithCache(c *cache.LRU) *Service {
	s.cache = c
	return s
}

// Init records the genesis point, once.
func (s *Service) Init(ts uint64, blk uint32) error {
	exists, err := s.history.Exists(0)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.SetBlockTime(blk, ts); err != nil {
		return err
	}
	return s.history.Set(0, Zero(ts, blk))
}

// SetBlockTime records the time of block blk.
func (s *Service) SetBlockTime(blk uint32, t uint64) error {
	if err := s.blockTime.Set(solidity.Uint64Key(blk), t); err != nil {
		return errors.Wrap(err, "failed to set block time")
	}
	return nil
}

// BlockTime returns the recorded time of block blk.
func (s *Service) BlockTime(blk uint32) (uint64, bool, error) {
	key := solidity.Uint64Key(blk)
	ok, err := s.blockTime.Exists(key)
	if err != nil || !ok {
		return 0, false, err
	}
	t, err := s.blockTime.Get(key)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get block time")
	}
	return t, true, nil
}

// Epoch returns the index of the latest global point.
func (s *Service) Epoch() (uint64, error) {
	e, err := s.epoch.Get()
	if err != nil {
		return 0, err
	}
	return e.Uint64(), nil
}

// Get returns the global point at epoch.
func (s *Service) Get(epoch uint64) (*Point, error) {
	last, err := s.Epoch()
	if err != nil {
		return nil, err
	}
	if epoch > last {
		return nil, ErrNotFound
	}
	return s.get(epoch)
}

// get reads a point known to exist, so it is safe to cache.
func (s *Service) get(epoch uint64) (*Point, error) {
	if s.cache == nil {
		return s.load(epoch)
	}
	v, err := s.cache.GetOrLoad(epoch, func(any) (any, error) {
		return s.load(epoch)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Point).Clone(), nil
}

func (s *Service) load(epoch uint64) (*Point, error) {
	p, err := s.history.Get(solidity.Uint64Key(epoch))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get point")
	}
	return p.normalize(), nil
}

// Last returns the latest global point and its epoch.
func (s *Service) Last() (uint64, *Point, error) {
	epoch, err := s.Epoch()
	if err != nil {
		return 0, nil, err
	}
	p, err := s.get(epoch)
	if err != nil {
		return 0, nil, err
	}
	return epoch, p, nil
}

// Append records p as the next global epoch and returns it.
func (s *Service) Append(p *Point) (uint64, error) {
	epoch, err := s.Epoch()
	if err != nil {
		return 0, err
	}
	epoch++
	if err := s.history.Set(solidity.Uint64Key(epoch), p); err != nil {
		return 0, errors.Wrap(err, "failed to append point")
	}
	if err := s.epoch.Add(bigOne); err != nil {
		return 0, err
	}
	return epoch, nil
}

// UserEpoch returns the index of the latest point of owner.
func (s *Service) UserEpoch(owner thor.Address) (uint64, error) {
	e, err := s.userEpoch.Get(owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get user epoch")
	}
	return e, nil
}

// UserGet returns the point of owner at epoch. Epoch 0 is an empty point.
func (s *Service) UserGet(owner thor.Address, epoch uint64) (*Point, error) {
	last, err := s.UserEpoch(owner)
	if err != nil {
		return nil, err
	}
	if epoch > last {
		return nil, ErrNotFound
	}
	return s.userGet(owner, epoch)
}

func (s *Service) userGet(owner thor.Address, epoch uint64) (*Point, error) {
	key := userKey{owner, epoch}
	if s.cache == nil {
		return s.loadUser(key)
	}
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		return s.loadUser(key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Point).Clone(), nil
}

func (s *Service) loadUser(key userKey) (*Point, error) {
	p, err := s.user.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user point")
	}
	return p.normalize(), nil
}

// UserLast returns the latest point of owner and its epoch.
func (s *Service) UserLast(owner thor.Address) (uint64, *Point, error) {
	epoch, err := s.UserEpoch(owner)
	if err != nil {
		return 0, nil, err
	}
	p, err := s.userGet(owner, epoch)
	if err != nil {
		return 0, nil, err
	}
	return epoch, p, nil
}

// UserAppend records p as the next point of owner and returns its epoch.
func (s *Service) UserAppend(owner thor.Address, p *Point) (uint64, error) {
	epoch, err := s.UserEpoch(owner)
	if err != nil {
		return 0, err
	}
	epoch++
	if err := s.user.Set(userKey{owner, epoch}, p); err != nil {
		return 0, errors.Wrap(err, "failed to append user point")
	}
	if err := s.userEpoch.Set(owner, epoch); err != nil {
		return 0, errors.Wrap(err, "failed to set user epoch")
	}
	return epoch, nil
}
