// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slopes keeps the schedule of slope changes at week boundaries.
//
// Each entry holds the magnitude of decay that stops at that boundary, the sum of
// the slopes of all locks ending there. When replay crosses the boundary the
// global slope changes by Delta, the negated magnitude.
package slopes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/thor"
)

var slotChanges = thor.Slot("slope-changes")

// ErrUnderflow is returned when more slope is unscheduled than was scheduled.
var ErrUnderflow = errors.New("slope change underflow")

type Service struct {
	changes *solidity.Mapping[solidity.Uint64Key, *big.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		changes: solidity.NewMapping[solidity.Uint64Key, *big.Int](sctx, slotChanges),
	}
}

// Get returns the magnitude of slope ending at t.
func (s *Service) Get(t uint64) (*big.Int, error) {
	v, err := s.changes.Get(solidity.Uint64Key(t))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get slope change")
	}
	return v, nil
}

// Delta returns the signed change applied to the global slope when replay crosses t.
func (s *Service) Delta(t uint64) (*big.Int, error) {
	v, err := s.Get(t)
	if err != nil {
		return nil, err
	}
	return v.Neg(v), nil
}

// Schedule adds slope to the decay ending at t.
func (s *Service) Schedule(t uint64, slope *big.Int) error {
	if t%thor.Week != 0 {
		return errors.Errorf("slope change at unaligned time %d", t)
	}
	v, err := s.Get(t)
	if err != nil {
		return err
	}
	return s.set(t, v.Add(v, slope))
}

// Unschedule removes slope from the decay ending at t.
func (s *Service) Unschedule(t uint64, slope *big.Int) error {
	v, err := s.Get(t)
	if err != nil {
		return err
	}
	if v.Cmp(slope) < 0 {
		return errors.Wrapf(ErrUnderflow, "at %d: %v < %v", t, v, slope)
	}
	return s.set(t, v.Sub(v, slope))
}

func (s *Service) set(t uint64, v *big.Int) error {
	if err := s.changes.Set(solidity.Uint64Key(t), v); err != nil {
		return errors.Wrap(err, "failed to set slope change")
	}
	return nil
}
