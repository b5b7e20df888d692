// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scheduler runs periodic checkpoints, so an idle ledger never lapses
// beyond what one checkpoint can replay.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/metrics"
	"github.com/vechain/veescrow/thor"
)

var (
	logger = log.WithContext("pkg", "scheduler")

	metricRuns = metrics.LazyLoadCounterVec("scheduler_runs_count", []string{"result"})
)

// Checkpointer catches the ledger up to the clock.
type Checkpointer interface {
	CatchUp(ctx context.Context, progress func(blk thor.BlockContext)) (int, error)
}

// Scheduler runs catch up checkpoints on a cron spec.
type Scheduler struct {
	cron   *cron.Cron
	target Checkpointer

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex // one run at a time
}

// New creates a scheduler calling target on spec, a standard 5 field cron
// expression evaluated in UTC.
func New(target Checkpointer, spec string) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		target: target,
		ctx:    ctx,
		cancel: cancel,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		cancel()
		return nil, errors.Wrap(err, "register checkpoint job")
	}
	return s, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started", "next", s.Next())
}

// Stop cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// Next returns the time of the next scheduled run.
func (s *Scheduler) Next() time.Time {
	for _, e := range s.cron.Entries() {
		return e.Schedule.Next(time.Now().UTC())
	}
	return time.Time{}
}

// RunNow runs the job immediately, as on startup.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	n, err := s.target.CatchUp(s.ctx, nil)
	if err != nil {
		metricRuns().AddWithLabel(1, map[string]string{"result": "error"})
		logger.Warn("scheduled checkpoint failed", "blocks", n, "error", err)
		return
	}
	metricRuns().AddWithLabel(1, map[string]string{"result": "ok"})
	logger.Info("scheduled checkpoint", "blocks", n, "elapsed", time.Since(start))
}
