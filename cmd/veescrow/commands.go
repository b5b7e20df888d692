// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/veescrow/ledger"
	"github.com/vechain/veescrow/thor"
)

// pendingCheckpoints estimates the checkpoint blocks needed to replay up to now.
func pendingCheckpoints(lastTs, now, replayLimit uint64) uint64 {
	start := thor.RoundToWeek(lastTs)
	weeks := uint64(1)
	if now > start {
		weeks = max((now-start+thor.Week-1)/thor.Week, 1)
	}
	if replayLimit == 0 {
		return 1
	}
	return (weeks + replayLimit - 1) / replayLimit
}

func catchUp(ctx context.Context, l *ledger.Ledger) error {
	r, err := l.Reader()
	if err != nil {
		return err
	}
	last, err := r.LastPoint()
	if err != nil {
		r.Release()
		return err
	}
	total := pendingCheckpoints(last.Ts, l.Now(), r.Params().ReplayLimit)
	r.Release()

	fmt.Println(">> Catching up checkpoints <<")
	bar := pb.New64(int64(total)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	start := time.Now()
	n, err := l.CatchUp(ctx, func(thor.BlockContext) {
		bar.Add64(1)
	})
	if err != nil {
		return err
	}
	bar.Finish()
	fmt.Printf("%d checkpoint blocks in %v, head #%d\n", n, time.Since(start).Round(time.Millisecond), l.Head().Number)
	return nil
}

func inspect(w io.Writer, l *ledger.Ledger) error {
	r, err := l.Reader()
	if err != nil {
		return err
	}
	defer r.Release()

	head := r.Head()
	epoch, err := r.Epoch()
	if err != nil {
		return err
	}
	last, err := r.LastPoint()
	if err != nil {
		return err
	}
	supply, err := r.TotalSupply()
	if err != nil {
		return err
	}
	locked, err := r.LockedSupply()
	if err != nil {
		return err
	}
	lapsed, err := l.Lapsed()
	if err != nil {
		return err
	}
	params := r.Params()

	fmt.Fprintf(w, `Genesis        [ %v ]
Head           [ #%v @%v ]
Epoch          [ %v @%v ]
Total supply   [ %v ]
Locked supply  [ %v ]
Lapsed         [ %v ]
Params         [ max-time %vs, replay-limit %v, penalty-pool %v ]
`,
		l.Genesis().Name(),
		head.Number, time.Unix(int64(head.Time), 0).UTC().Format(time.RFC3339),
		epoch, time.Unix(int64(last.Ts), 0).UTC().Format(time.RFC3339),
		supply,
		locked,
		lapsed,
		params.MaxTime, params.ReplayLimit, params.PenaltyPool,
	)
	return nil
}
