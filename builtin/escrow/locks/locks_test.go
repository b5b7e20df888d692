// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locks

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/veescrow/builtin/solidity"
	"github.com/vechain/veescrow/lvldb"
	"github.com/vechain/veescrow/state"
	"github.com/vechain/veescrow/thor"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(thor.BytesToAddress([]byte("escrow")), state.New(db)))
}

func TestLockedBalance_Status(t *testing.T) {
	tests := []struct {
		name string
		lock LockedBalance
		now  uint64
		want Status
	}{
		{"zero value", LockedBalance{}, 10, NoLock},
		{"zero amount with end", LockedBalance{Amount: big.NewInt(0), End: 100}, 10, NoLock},
		{"active", LockedBalance{Amount: big.NewInt(1), End: 100}, 10, Locked},
		{"ends now", LockedBalance{Amount: big.NewInt(1), End: 100}, 100, Expired},
		{"ended", LockedBalance{Amount: big.NewInt(1), End: 100}, 101, Expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lock.Status(tt.now))
		})
	}
	assert.Equal(t, "locked", Locked.String())
	assert.Equal(t, "unknown", Status(9).String())
}

func TestService_GetSet(t *testing.T) {
	svc := newService(t)
	owner := thor.BytesToAddress([]byte("owner"))

	lock, err := svc.Get(owner)
	require.NoError(t, err)
	assert.Equal(t, NoLock, lock.Status(0))
	assert.Equal(t, 0, lock.Amount.Sign())

	require.NoError(t, svc.Set(owner, &LockedBalance{Amount: big.NewInt(500), End: thor.Week * 3}))
	lock, err = svc.Get(owner)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), lock.Amount)
	assert.Equal(t, thor.Week*3, lock.End)

	clone := lock.Clone()
	clone.Amount.SetInt64(1)
	assert.Equal(t, big.NewInt(500), lock.Amount)

	require.NoError(t, svc.Set(owner, &LockedBalance{Amount: new(big.Int)}))
	lock, err = svc.Get(owner)
	require.NoError(t, err)
	assert.True(t, lock.IsEmpty())
	assert.Equal(t, uint64(0), lock.End)
}

func TestService_Supply(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.AddSupply(big.NewInt(30)))
	require.NoError(t, svc.AddSupply(big.NewInt(12)))
	require.NoError(t, svc.SubSupply(big.NewInt(2)))

	supply, err := svc.Supply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), supply)

	assert.Error(t, svc.SubSupply(big.NewInt(41)))
}
