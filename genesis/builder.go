// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/veescrow/kv"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State, genesis thor.BlockContext) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State, genesis thor.BlockContext) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes over src and returns the pending changes
// together with the genesis block context.
func (b *Builder) Build(src kv.Getter) (*state.Stage, thor.BlockContext, error) {
	genesis := thor.BlockContext{Number: 0, Time: b.timestamp}
	st := state.New(src)
	for _, proc := range b.stateProcs {
		if err := proc(st, genesis); err != nil {
			return nil, thor.BlockContext{}, errors.Wrap(err, "state process")
		}
	}
	return st.Stage(), genesis, nil
}
