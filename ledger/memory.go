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
	"sync"

	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/common/future"
)

// MemoryStore is an in-memory Store implementation. It keeps all records in
// a plain map and is primarily intended for tests and development setups.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[DbKey][]byte
	closed bool
}

// NewMemoryStore constructs a new, empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[DbKey][]byte{}}
}

// Get returns the value stored under the given key.
func (s *MemoryStore) Get(table TableSpace, key common.Address) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, fmt.Errorf("store is closed")
	}
	value, found := s.data[ToDbKey(table, key)]
	if !found {
		return nil, false, nil
	}
	res := make([]byte, len(value))
	copy(res, value)
	return res, true, nil
}

// Set stores the given value under the given key.
func (s *MemoryStore) Set(table TableSpace, key common.Address, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[ToDbKey(table, key)] = stored
	return nil
}

// Delete removes the given key.
func (s *MemoryStore) Delete(table TableSpace, key common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	delete(s.data, ToDbKey(table, key))
	return nil
}

// Apply performs all given updates under a single lock acquisition, so no
// reader can observe a partially applied batch.
func (s *MemoryStore) Apply(updates []Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	for _, update := range updates {
		if update.Deleted {
			delete(s.data, update.Key)
			continue
		}
		stored := make([]byte, len(update.Value))
		copy(stored, update.Value)
		s.data[update.Key] = stored
	}
	return nil
}

// Flush is a no-op for the in-memory store.
func (s *MemoryStore) Flush() error {
	return nil
}

// FlushAsync is a no-op for the in-memory store.
func (s *MemoryStore) FlushAsync() future.Future[error] {
	return future.Immediate[error](nil)
}

// Close releases the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}
