// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger runs the escrow as a single writer over a kv store.
//
// Every state-changing operation is one block: it is assigned the next block
// number and a time no earlier than the head, executed against a fresh
// journaled state and committed together with the new head in one atomic write.
// Readers work on kv snapshots and never wait for the writer.
package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/builtin"
	"github.com/vechain/veescrow/builtin/escrow"
	"github.com/vechain/veescrow/builtin/escrow/penalty"
	"github.com/vechain/veescrow/cache"
	"github.com/vechain/veescrow/co"
	"github.com/vechain/veescrow/genesis"
	"github.com/vechain/veescrow/kv"
	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/logdb"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

const (
	stateBucket = kv.Bucket("s") // escrow and token storage
	propBucket  = kv.Bucket("p") // head and genesis name
	eventBucket = kv.Bucket("e") // events per block, for rebuilding the log db
)

var (
	logger = log.WithContext("pkg", "ledger")

	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

// Options configures a ledger. Zero values select the defaults.
type Options struct {
	// Policy splits early withdrawals, nil disables them.
	Policy penalty.Policy
	// Clock returns the current unix time.
	Clock func() uint64
	// PointsCacheSize is the count of decoded points shared by readers.
	PointsCacheSize int
	// QueryCacheMB is the size of the cache of historical query results.
	QueryCacheMB int
}

// Ledger is the single-writer escrow runtime.
//
// It's thread-safe.
type Ledger struct {
	db      kv.Store
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	policy  penalty.Policy
	clock   func() uint64

	writeLock sync.Mutex
	head      atomic.Pointer[thor.BlockContext]
	tick      co.Signal

	points  *cache.LRU
	queries *cache.Blob
}

// New opens the ledger in db, writing the genesis state when db is empty.
// Events of committed blocks missing from logDB are indexed again.
func New(db kv.Store, logDB *logdb.LogDB, gene *genesis.Genesis, opts Options) (*Ledger, error) {
	if opts.Clock == nil {
		opts.Clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if opts.PointsCacheSize <= 0 {
		opts.PointsCacheSize = 4096
	}
	if opts.QueryCacheMB <= 0 {
		opts.QueryCacheMB = 16
	}
	points, err := cache.NewLRU(opts.PointsCacheSize)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		db:      db,
		logDB:   logDB,
		genesis: gene,
		policy:  opts.Policy,
		clock:   opts.Clock,
		points:  points,
		queries: cache.NewBlob(opts.QueryCacheMB),
	}

	props := propBucket.NewGetter(db)
	if name, err := props.Get(genesisKey); err != nil {
		if !props.IsNotFound(err) {
			return nil, err
		}
		if err := l.writeGenesis(); err != nil {
			return nil, errors.Wrap(err, "write genesis")
		}
	} else if string(name) != gene.Name() {
		return nil, errors.Errorf("genesis mismatch: stored %q, given %q", name, gene.Name())
	}

	head, err := loadHead(props)
	if err != nil {
		return nil, errors.Wrap(err, "load head")
	}
	l.head.Store(&head)
	epoch, err := builtin.Escrow.ReadOnly(state.New(stateBucket.NewGetter(db))).Epoch()
	if err != nil {
		return nil, err
	}
	l.updateGauges(head, epoch)
	registerGaugeFuncs(l)

	if logDB != nil {
		if err := l.reindex(); err != nil {
			return nil, errors.Wrap(err, "reindex events")
		}
	}
	logger.Info("ledger opened", "genesis", gene.Name(), "head", head.Number, "time", head.Time)
	return l, nil
}

func (l *Ledger) writeGenesis() error {
	stage, blk, err := l.genesis.Build(stateBucket.NewGetter(l.db))
	if err != nil {
		return err
	}
	bulk := l.db.Bulk()
	if err := stage.Commit(stateBucket.NewPutter(bulk)); err != nil {
		return err
	}
	props := propBucket.NewPutter(bulk)
	if err := saveHead(props, blk); err != nil {
		return err
	}
	if err := props.Put(genesisKey, []byte(l.genesis.Name())); err != nil {
		return err
	}
	return bulk.Write()
}

func loadHead(getter kv.Getter) (thor.BlockContext, error) {
	var head thor.BlockContext
	data, err := getter.Get(headKey)
	if err != nil {
		return head, err
	}
	if err := rlp.DecodeBytes(data, &head); err != nil {
		return head, err
	}
	return head, nil
}

func saveHead(putter kv.Putter, head thor.BlockContext) error {
	data, err := rlp.EncodeToBytes(&head)
	if err != nil {
		return err
	}
	return putter.Put(headKey, data)
}

// Head returns the context of the latest committed block.
func (l *Ledger) Head() thor.BlockContext {
	return *l.head.Load()
}

// Now returns the ledger clock.
func (l *Ledger) Now() uint64 {
	return l.clock()
}

// Genesis returns the genesis the ledger was opened with.
func (l *Ledger) Genesis() *genesis.Genesis {
	return l.genesis
}

// NewTicker returns a waiter fired after each committed block.
func (l *Ledger) NewTicker() co.Waiter {
	return l.tick.NewWaiter()
}

// Receipt is the outcome of a committed operation.
type Receipt struct {
	Block  thor.BlockContext
	Events []*escrow.Event
}

// Execute runs fn as the next block. Nothing is written when fn fails.
func (l *Ledger) Execute(op string, fn func(esc *escrow.Escrow, blk thor.BlockContext) error) (*Receipt, error) {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()

	start := time.Now()
	head := l.Head()
	blk := thor.BlockContext{Number: head.Number + 1, Time: max(l.clock(), head.Time)}

	st := state.New(stateBucket.NewGetter(l.db))
	esc := builtin.Escrow.WithState(st, l.policy)
	if err := fn(esc, blk); err != nil {
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": resultOf(err)})
		return nil, err
	}
	events := esc.Events()
	epoch, err := esc.Epoch()
	if err != nil {
		return nil, err
	}

	bulk := l.db.Bulk()
	if err := st.Stage().Commit(stateBucket.NewPutter(bulk)); err != nil {
		return nil, err
	}
	if len(events) > 0 {
		data, err := encodeEvents(blk.Time, events)
		if err != nil {
			return nil, err
		}
		if err := eventBucket.NewPutter(bulk).Put(blockKey(blk.Number), data); err != nil {
			return nil, err
		}
	}
	if err := saveHead(propBucket.NewPutter(bulk), blk); err != nil {
		return nil, err
	}
	if err := bulk.Write(); err != nil {
		return nil, errors.Wrap(err, "commit block")
	}
	l.head.Store(&blk)

	if l.logDB != nil && len(events) > 0 {
		w := l.logDB.NewWriter()
		w.Write(blk.Number, blk.Time, toLogEvents(events))
		if err := w.Commit(); err != nil {
			// picked up by reindex on next open
			logger.Warn("failed to index events", "block", blk.Number, "error", err)
		}
	}
	l.tick.Broadcast()

	metricOps().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	l.updateGauges(blk, epoch)
	logger.Debug("block committed", "op", op, "number", blk.Number, "time", blk.Time, "events", len(events))
	return &Receipt{Block: blk, Events: events}, nil
}

func (l *Ledger) updateGauges(head thor.BlockContext, epoch uint64) {
	metricHead().Set(int64(head.Number))
	metricEpoch().Set(int64(epoch))

	if logger.Enabled(context.Background(), log.LevelTrace) {
		logger.Trace("cache stats", "points", l.points.Stats().HitRate(), "queries", l.queries.Stats().HitRate())
	}
}

// reindex writes the events of blocks newer than the log db's newest.
func (l *Ledger) reindex() error {
	head := l.Head()
	newest, ok, err := l.logDB.NewestBlock()
	if err != nil {
		return err
	}
	w := l.logDB.NewWriter()
	if ok && newest > head.Number {
		logger.Warn("log db ahead of ledger, truncating", "newest", newest, "head", head.Number)
		return w.Truncate(head.Number + 1)
	}
	from := uint32(1)
	if ok {
		from = newest + 1
	}

	iter := eventBucket.NewStore(l.db).Iterate(kv.Range{
		Start: blockKey(from),
		Limit: blockKey(head.Number + 1),
	})
	defer iter.Release()
	n := 0
	for iter.Next() {
		num := blockNumber(iter.Key())
		blockTime, events, err := decodeEvents(iter.Value())
		if err != nil {
			return errors.Wrapf(err, "decode events of block %d", num)
		}
		w.Write(num, blockTime, toLogEvents(events))
		n++
		if w.UncommittedCount() >= 2048 {
			if err := w.Commit(); err != nil {
				return err
			}
		}
	}
	if err := iter.Error(); err != nil {
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}
	if n > 0 {
		logger.Info("reindexed events", "blocks", n, "from", from)
	}
	return nil
}
