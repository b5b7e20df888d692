// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/veescrow/kv"
)

// Stage abstracts the pending storage changes of a state.
type Stage struct {
	keys    []storageKey
	changes map[storageKey]rlp.RawValue
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes into the putter, in the order the slots were first touched.
// Cleared slots are deleted.
func (s *Stage) Commit(putter kv.Putter) error {
	for _, key := range s.keys {
		value := s.changes[key]
		if len(value) == 0 {
			if err := putter.Delete(key.dbKey()); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := putter.Put(key.dbKey(), value); err != nil {
			return &Error{err}
		}
	}
	return nil
}
