// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state is the journaled contract storage of the ledger.
//
// Storage is addressed by (contract address, 32-byte key) and holds rlp raw values.
// Writes go to a revisioned journal on top of a kv getter, so a failed transaction is
// rolled back with RevertTo. Stage collects the surviving writes for an atomic commit.
package state
