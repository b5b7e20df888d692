// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Waiter provides channel to wait for.
// A received true is a Signal, a closed channel a Broadcast.
type Waiter interface {
	C() <-chan bool
}

// Signal is a channel based rendezvous, usable in select unlike sync.Cond.
// The zero value is ready to use.
type Signal struct {
	l  sync.Mutex
	ch chan bool
}

func (s *Signal) chanLocked() chan bool {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
	return s.ch
}

// Signal wakes one waiter, or the next one to wait.
func (s *Signal) Signal() {
	s.l.Lock()
	defer s.l.Unlock()

	select {
	case s.chanLocked() <- true:
	default:
	}
}

// Broadcast wakes all current waiters.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	close(s.chanLocked())
	s.ch = make(chan bool, 1)
}

// NewWaiter returns a Waiter that sees every Broadcast made after this call.
// Each C() call moves the waiter on to the current generation.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.chanLocked()
	s.l.Unlock()

	return waiterFunc(func() <-chan bool {
		ch := ref

		s.l.Lock()
		ref = s.ch
		s.l.Unlock()

		return ch
	})
}

// Wait blocks until the waiter fires or ctx is done.
func Wait(ctx context.Context, w Waiter) error {
	select {
	case <-w.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type waiterFunc func() <-chan bool

func (w waiterFunc) C() <-chan bool {
	return w()
}
