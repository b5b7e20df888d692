// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq packs block number and event index, see sequence.
const eventTableSchema = `
create table if not exists event (
	seq integer primary key not null,
	blockTime integer not null,
	kind text not null,
	provider blob(20),
	value blob,
	locktime integer not null default 0,
	depositType integer not null default 0,
	pool blob(20),
	prevSupply blob
);

create index if not exists eventProviderIndex on event(provider);
create index if not exists eventKindIndex on event(kind);
create index if not exists eventTimeIndex on event(blockTime);
`

const eventColumns = "seq, blockTime, kind, provider, value, locktime, depositType, pool, prevSupply"
