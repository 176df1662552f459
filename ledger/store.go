// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ledger models the persisted account state of the trading protocol:
// balance accounts, commitment-tree accounts, and order records, all keyed
// by 32-byte addresses partitioned into table spaces. It provides an
// in-memory store for tests and a LevelDB-backed store for durable
// deployments, plus an all-or-nothing transaction scope over either.
package ledger

import (
	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/common/future"
)

// TableSpace separates the key spaces of the different record types held in
// a single store instance.
type TableSpace byte

const (
	// BalanceSpace holds balance accounts, keyed by derived token-holding
	// addresses.
	BalanceSpace TableSpace = 'b'
	// TreeSpace holds commitment-tree accounts, keyed by tree address.
	TreeSpace TableSpace = 't'
	// OrderSpace holds order records, keyed by derived order addresses.
	OrderSpace TableSpace = 'o'
)

// KeySize is the number of bytes of an encoded store key: one table-space
// byte followed by the record address.
const KeySize = 1 + common.AddressSize

// DbKey is the encoded form of a (table space, address) pair.
type DbKey [KeySize]byte

// ToDbKey encodes a table space and address into a store key.
func ToDbKey(table TableSpace, key common.Address) DbKey {
	var res DbKey
	res[0] = byte(table)
	copy(res[1:], key[:])
	return res
}

// Update is one mutation of a batch submitted through Store.Apply. A zero
// Deleted flag stores Value under Key, otherwise Key is removed.
type Update struct {
	Key     DbKey
	Value   []byte
	Deleted bool
}

// Store is a byte-level key/value store partitioned into table spaces. All
// typed access goes through the Tx transaction scope; the Store itself only
// moves raw bytes.
//
// Implementations must tolerate concurrent readers, but writers are
// serialized by the transaction executor above them.
type Store interface {
	// Get returns the value stored under the given key, and whether the
	// key is present.
	Get(table TableSpace, key common.Address) ([]byte, bool, error)
	// Set stores the given value under the given key.
	Set(table TableSpace, key common.Address, value []byte) error
	// Delete removes the given key. Deleting an absent key is a no-op.
	Delete(table TableSpace, key common.Address) error
	// Apply performs all given updates as one atomic batch. Either every
	// update is applied or, on error, none is.
	Apply(updates []Update) error
	// Flush writes all buffered state to the underlying medium.
	Flush() error
	// FlushAsync triggers a flush in the background and returns a future
	// for its outcome.
	FlushAsync() future.Future[error]
	// Close flushes and releases the store. No operation may follow.
	Close() error
}
