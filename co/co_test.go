// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/veescrow/co"
)

func TestSignal_SignalBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Signal()

	<-sig.NewWaiter().C()
}

func TestSignal_SignalAfterWait(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	sig.Signal()
	<-w.C()
}

func TestSignal_BroadcastBefore(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}

	var n int
	for _, w := range ws {
		select {
		case <-w.C():
		default:
			n++
		}
	}
	assert.Equal(t, 10, n)
}

func TestSignal_BroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}

	sig.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
}

func TestWaitContext(t *testing.T) {
	var sig co.Signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, co.Wait(ctx, sig.NewWaiter()), context.DeadlineExceeded)

	w := sig.NewWaiter()
	sig.Broadcast()
	assert.NoError(t, co.Wait(context.Background(), w))
}

func TestGoes(t *testing.T) {
	var (
		goes co.Goes
		n    atomic.Int32
	)
	ctx, cancel := context.WithCancel(context.Background())
	for range 5 {
		goes.GoCtx(ctx, func(ctx context.Context) {
			<-ctx.Done()
			n.Add(1)
		})
	}
	cancel()

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("goroutines did not exit")
	}
	assert.Equal(t, int32(5), n.Load())
}

func TestParallel(t *testing.T) {
	var sum atomic.Int64
	co.Parallel(func(queue co.Enqueue) {
		for i := range 100 {
			queue(func() { sum.Add(int64(i)) })
		}
	})
	assert.Equal(t, int64(4950), sum.Load())
}
