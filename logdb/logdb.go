// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes escrow events in sqlite for filtering by participant, kind and range.
// It is a secondary view rebuilt from the events of committed blocks.
package logdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/log"
	"github.com/vechain/veescrow/thor"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would get its own database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// NewestBlock returns the number of the newest block with indexed events.
// The flag is false when the index is empty.
func (db *LogDB) NewestBlock() (uint32, bool, error) {
	stmt, done, err := db.stmtCache.Prepare(context.Background(), "SELECT MAX(seq) FROM event")
	if err != nil {
		return 0, false, err
	}
	defer done()
	var seq sql.NullInt64
	if err := stmt.QueryRow().Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64).BlockNumber(), true, nil
}

// FilterEvents returns the events selected by filter. A nil filter selects all.
func (db *LogDB) FilterEvents(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		filter = &Filter{}
	}
	metricsHandleFilter(filter)

	var (
		args []any
		sb   strings.Builder
	)
	sb.WriteString("SELECT " + eventColumns + " FROM event WHERE 1")

	if r := filter.Range; r != nil {
		if r.Unit == Time {
			sb.WriteString(" AND blockTime >= ?")
			args = append(args, r.From)
			if r.To >= r.From {
				sb.WriteString(" AND blockTime <= ?")
				args = append(args, r.To)
			}
		} else {
			if r.From > uint64(^uint32(0)) {
				return nil, nil
			}
			sb.WriteString(" AND seq >= ?")
			args = append(args, int64(firstOf(uint32(r.From))))
			if r.To >= r.From {
				to := min(r.To, uint64(^uint32(0)))
				sb.WriteString(" AND seq <= ?")
				args = append(args, int64(lastOf(uint32(to))))
			}
		}
	}
	if filter.Provider != nil {
		sb.WriteString(" AND provider = ?")
		args = append(args, filter.Provider.Bytes())
	}
	if len(filter.Kinds) > 0 {
		sb.WriteString(" AND kind IN (?" + strings.Repeat(",?", len(filter.Kinds)-1) + ")")
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}

	if filter.Order == DESC {
		sb.WriteString(" ORDER BY seq DESC")
	} else {
		sb.WriteString(" ORDER BY seq ASC")
	}
	if filter.Options != nil {
		sb.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, sb.String(), args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, done, err := db.stmtCache.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer done()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         int64
			blockTime   uint64
			kind        string
			provider    []byte
			value       []byte
			locktime    uint64
			depositType uint8
			pool        []byte
			prevSupply  []byte
		)
		if err := rows.Scan(
			&seq,
			&blockTime,
			&kind,
			&provider,
			&value,
			&locktime,
			&depositType,
			&pool,
			&prevSupply,
		); err != nil {
			return nil, err
		}
		ev := &Event{
			BlockNumber: sequence(seq).BlockNumber(),
			BlockTime:   blockTime,
			Index:       sequence(seq).Index(),
			Kind:        kind,
			Provider:    thor.BytesToAddress(provider),
			Locktime:    locktime,
			DepositType: depositType,
			Pool:        thor.BytesToAddress(pool),
			Value:       new(big.Int).SetBytes(value),
		}
		if prevSupply != nil {
			ev.PrevSupply = new(big.Int).SetBytes(prevSupply)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NewWriter creates a writer buffering events until Commit.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// Writer accumulates the events of consecutive blocks and writes them in one transaction.
type Writer struct {
	db     *LogDB
	events []*Event
}

// Write buffers the events of block blockNum, indexed in order.
func (w *Writer) Write(blockNum uint32, blockTime uint64, events []*Event) {
	for i, ev := range events {
		ev.BlockNumber = blockNum
		ev.BlockTime = blockTime
		ev.Index = uint32(i)
		w.events = append(w.events, ev)
	}
}

// UncommittedCount returns the count of buffered events.
func (w *Writer) UncommittedCount() int {
	return len(w.events)
}

// Rollback drops the buffered events.
func (w *Writer) Rollback() {
	w.events = nil
}

// Commit writes the buffered events. Events already indexed at the same position are replaced.
func (w *Writer) Commit() error {
	if len(w.events) == 0 {
		return nil
	}
	err := w.db.execInTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT OR REPLACE INTO event(" + eventColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, ev := range w.events {
			seq, err := newSequence(ev.BlockNumber, ev.Index)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(
				int64(seq),
				ev.BlockTime,
				ev.Kind,
				addressValue(ev.Provider),
				bigValue(ev.Value),
				ev.Locktime,
				ev.DepositType,
				addressValue(ev.Pool),
				bigValue(ev.PrevSupply),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "commit events")
	}
	w.events = nil
	return nil
}

// Truncate deletes the events of blockNum and later blocks.
func (w *Writer) Truncate(blockNum uint32) error {
	_, err := w.db.db.Exec("DELETE FROM event WHERE seq >= ?", int64(firstOf(blockNum)))
	return err
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func addressValue(addr thor.Address) []byte {
	if addr.IsZero() {
		return nil
	}
	return addr.Bytes()
}

func bigValue(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	// a zero value is stored as an empty blob, not null
	return append([]byte{}, v.Bytes()...)
}
