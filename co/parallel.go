// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"runtime"
)

// Enqueue queues a work item for Parallel.
type Enqueue func(work func())

// Parallel runs the works queued by cb on one worker per CPU and returns when all are done.
func Parallel(cb func(Enqueue)) {
	var goes Goes
	defer goes.Wait()

	n := runtime.NumCPU()
	ch := make(chan func(), n*2)
	defer close(ch)
	for range n {
		goes.Go(func() {
			for work := range ch {
				work()
			}
		})
	}
	cb(func(work func()) { ch <- work })
}
