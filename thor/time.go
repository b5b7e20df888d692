// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

const (
	// Week is the granularity of lock expiries, in seconds.
	Week uint64 = 7 * 86400
	// Year used to express lock durations.
	Year uint64 = 365 * 86400
)

// RoundToWeek rounds t down to the nearest week boundary.
// Week boundaries are aligned to unix time 0 (a Thursday).
func RoundToWeek(t uint64) uint64 {
	return t / Week * Week
}

// BlockContext is the observation point of a ledger transaction.
// Every state change happens at exactly one block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}
