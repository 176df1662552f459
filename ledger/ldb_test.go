// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"testing"

	"github.com/0xsoniclabs/canopy/common"
	"github.com/stretchr/testify/require"
)

func TestLevelDbStore_ValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	key := common.Address{0: 0x01}

	store, err := OpenLevelDbStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(BalanceSpace, key, []byte{1, 2, 3}))
	require.NoError(t, store.Close())

	store, err = OpenLevelDbStore(dir)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	value, found, err := store.Get(BalanceSpace, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{1, 2, 3}, value)
}

func TestLevelDbStore_TableSpacesAreDisjoint(t *testing.T) {
	store, err := OpenLevelDbStore(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	key := common.Address{0: 0x01}
	require.NoError(t, store.Set(BalanceSpace, key, []byte{1}))
	require.NoError(t, store.Set(OrderSpace, key, []byte{2}))

	value, found, err := store.Get(BalanceSpace, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{1}, value)

	value, found, err = store.Get(OrderSpace, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{2}, value)
}

func TestLevelDbStore_DeleteRemovesValue(t *testing.T) {
	store, err := OpenLevelDbStore(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	key := common.Address{0: 0x01}
	require.NoError(t, store.Set(TreeSpace, key, []byte{1}))
	require.NoError(t, store.Delete(TreeSpace, key))

	_, found, err := store.Get(TreeSpace, key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestLevelDbStore_ApplyPerformsAllUpdates(t *testing.T) {
	store, err := OpenLevelDbStore(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	stale := common.Address{0: 0x01}
	fresh := common.Address{0: 0x02}
	require.NoError(t, store.Set(OrderSpace, stale, []byte{1}))

	require.NoError(t, store.Apply([]Update{
		{Key: ToDbKey(OrderSpace, stale), Deleted: true},
		{Key: ToDbKey(OrderSpace, fresh), Value: []byte{2}},
	}))

	_, found, err := store.Get(OrderSpace, stale)
	require.NoError(t, err)
	require.False(t, found)

	value, found, err := store.Get(OrderSpace, fresh)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte{2}, value)
}

func TestLevelDbStore_FlushAsyncCompletes(t *testing.T) {
	store, err := OpenLevelDbStore(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	require.NoError(t, store.Set(BalanceSpace, common.Address{0: 0x01}, []byte{1}))
	require.NoError(t, store.FlushAsync().Await())
}

func TestMemoryStore_ClosedStoreRejectsAccess(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	require.Error(t, store.Set(BalanceSpace, common.Address{}, []byte{1}))
	_, _, err := store.Get(BalanceSpace, common.Address{})
	require.Error(t, err)
}
