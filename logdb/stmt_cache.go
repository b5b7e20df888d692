// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"sync"
)

// maxCachedStmts bounds the prepared filter shapes. Filters differ only by which
// conditions are present and the number of kinds, so real workloads stay far below.
const maxCachedStmts = 128

// stmtCache keeps prepared statements by query text.
type stmtCache struct {
	db    *sql.DB
	mu    sync.Mutex
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

// Prepare returns the cached statement for query, preparing it on first use.
// Beyond maxCachedStmts the statement is prepared but not kept, and closed by done.
func (sc *stmtCache) Prepare(ctx context.Context, query string) (stmt *sql.Stmt, done func(), err error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if stmt, ok := sc.stmts[query]; ok {
		return stmt, func() {}, nil
	}
	if stmt, err = sc.db.PrepareContext(ctx, query); err != nil {
		return nil, nil, err
	}
	if len(sc.stmts) >= maxCachedStmts {
		return stmt, func() { stmt.Close() }, nil
	}
	sc.stmts[query] = stmt
	return stmt, func() {}, nil
}

func (sc *stmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for query, stmt := range sc.stmts {
		stmt.Close()
		delete(sc.stmts, query)
	}
}
