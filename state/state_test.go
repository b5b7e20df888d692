// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/thor"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("key"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := thor.BytesToBytes32([]byte("value"))
	st.SetStorage(addr, key, value)

	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	// other contracts are isolated
	v, err = st.GetStorage(thor.BytesToAddress([]byte("other")), key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestEncodeDecodeStorage(t *testing.T) {
	st, _ := newTestState(t)

	type pair struct {
		A uint64
		B []byte
	}
	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("pair"))

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&pair{1, []byte("x")})
	}))

	var got pair
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, pair{1, []byte("x")}, got)

	err := st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, new(uint64))
	})
	assert.Error(t, err)
	assert.IsType(t, &Error{}, err)
}

func TestCheckpointRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := thor.BytesToAddress([]byte("contract"))
	key := thor.BytesToBytes32([]byte("key"))

	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{1}))
	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte{2}))

	v, _ := st.GetStorage(addr, key)
	assert.Equal(t, thor.BytesToBytes32([]byte{2}), v)

	st.RevertTo(cp)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, thor.BytesToBytes32([]byte{1}), v)
}

func TestStageCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := thor.BytesToAddress([]byte("contract"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte{1}))
	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte{3}))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte{2}))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())

	bulk := db.Bulk()
	require.NoError(t, stage.Commit(bulk))
	require.NoError(t, bulk.Write())

	reloaded := New(db)
	v, err := reloaded.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte{3}), v)

	// clearing a slot deletes the key
	reloaded.SetStorage(addr, k2, thor.Bytes32{})
	bulk = db.Bulk()
	require.NoError(t, reloaded.Stage().Commit(bulk))
	require.NoError(t, bulk.Write())

	has, err := db.Has(storageKey{addr, k2}.dbKey())
	require.NoError(t, err)
	assert.False(t, has)
}
