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
	"fmt"

	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/common/future"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDbStore is a Store implementation persisting all records in a
// LevelDB instance. Writes are buffered in LevelDB's own write batch layer
// and made durable by Flush.
type LevelDbStore struct {
	db *leveldb.DB
}

// OpenLevelDbStore opens (or creates) a LevelDB-backed store at the given
// directory.
func OpenLevelDbStore(path string) (*LevelDbStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	return &LevelDbStore{db: db}, nil
}

// Get returns the value stored under the given key.
func (s *LevelDbStore) Get(table TableSpace, key common.Address) ([]byte, bool, error) {
	dbKey := ToDbKey(table, key)
	value, err := s.db.Get(dbKey[:], nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ledger record: %w", err)
	}
	return value, true, nil
}

// Set stores the given value under the given key.
func (s *LevelDbStore) Set(table TableSpace, key common.Address, value []byte) error {
	dbKey := ToDbKey(table, key)
	if err := s.db.Put(dbKey[:], value, nil); err != nil {
		return fmt.Errorf("failed to write ledger record: %w", err)
	}
	return nil
}

// Delete removes the given key.
func (s *LevelDbStore) Delete(table TableSpace, key common.Address) error {
	dbKey := ToDbKey(table, key)
	if err := s.db.Delete(dbKey[:], nil); err != nil {
		return fmt.Errorf("failed to delete ledger record: %w", err)
	}
	return nil
}

// Apply performs all given updates as a single LevelDB write batch, which
// the database applies atomically.
func (s *LevelDbStore) Apply(updates []Update) error {
	batch := new(leveldb.Batch)
	for _, update := range updates {
		if update.Deleted {
			batch.Delete(update.Key[:])
			continue
		}
		batch.Put(update.Key[:], update.Value)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to write ledger batch: %w", err)
	}
	return nil
}

// Flush compacts the write buffer, forcing all pending writes to durable
// storage.
func (s *LevelDbStore) Flush() error {
	if err := s.db.CompactRange(util.Range{}); err != nil {
		return fmt.Errorf("failed to flush ledger database: %w", err)
	}
	return nil
}

// FlushAsync triggers a flush in the background and returns a future for
// its outcome.
func (s *LevelDbStore) FlushAsync() future.Future[error] {
	promise, res := future.Create[error]()
	go func() {
		promise.Fulfill(s.Flush())
	}()
	return res
}

// Close flushes and releases the store.
func (s *LevelDbStore) Close() error {
	return s.db.Close()
}
