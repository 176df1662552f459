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
	"errors"
	"fmt"
	"math"

	"github.com/0xsoniclabs/canopy/common"
)

var (
	// ErrInsufficientFunds is returned when a debit or transfer exceeds the
	// payer's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrArithmeticOverflow is returned when a balance or fee computation
	// would exceed the 64-bit amount range. Amounts are checked, never
	// wrapped.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)

// Ledger provides transactional access to the persisted protocol state.
type Ledger struct {
	store Store
}

// New creates a ledger over the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Begin opens a new transaction scope. All reads within the scope observe
// the scope's own pending writes; nothing reaches the store before Commit.
func (l *Ledger) Begin() *Tx {
	return &Tx{store: l.store, writes: map[DbKey]pendingWrite{}}
}

// pendingWrite is one buffered mutation of a transaction scope.
type pendingWrite struct {
	value   []byte
	deleted bool
}

// Tx is an all-or-nothing transaction scope over a Store. Mutations are
// buffered in the scope and applied to the store only by Commit; dropping or
// aborting the scope leaves the store untouched. This mirrors the execution
// ledger's whole-transaction atomicity: a settlement either commits all of
// its effects or none.
//
// A Tx is not safe for concurrent use. Concurrent transactions on the same
// store are serialized by the transaction executor.
type Tx struct {
	store  Store
	writes map[DbKey]pendingWrite
	done   bool
}

func (t *Tx) get(table TableSpace, key common.Address) ([]byte, bool, error) {
	if write, found := t.writes[ToDbKey(table, key)]; found {
		if write.deleted {
			return nil, false, nil
		}
		return write.value, true, nil
	}
	return t.store.Get(table, key)
}

func (t *Tx) set(table TableSpace, key common.Address, value []byte) {
	t.writes[ToDbKey(table, key)] = pendingWrite{value: value}
}

func (t *Tx) delete(table TableSpace, key common.Address) {
	t.writes[ToDbKey(table, key)] = pendingWrite{deleted: true}
}

// Balance returns the holder's balance in the given currency. Absent
// accounts have a zero balance.
func (t *Tx) Balance(currency, holder common.Address) (uint64, error) {
	data, found, err := t.get(BalanceSpace, BalanceAddress(currency, holder))
	if err != nil || !found {
		return 0, err
	}
	account, err := decodeAccount(data)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Credit adds the given amount to the holder's balance.
func (t *Tx) Credit(currency, holder common.Address, amount uint64) error {
	balance, err := t.Balance(currency, holder)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: crediting %d to balance %d", ErrArithmeticOverflow, amount, balance)
	}
	t.set(BalanceSpace, BalanceAddress(currency, holder), encodeAccount(Account{Balance: balance + amount}))
	return nil
}

// Debit removes the given amount from the holder's balance, failing with
// ErrInsufficientFunds if the balance does not cover it.
func (t *Tx) Debit(currency, holder common.Address, amount uint64) error {
	balance, err := t.Balance(currency, holder)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: balance %d, needed %d", ErrInsufficientFunds, balance, amount)
	}
	t.set(BalanceSpace, BalanceAddress(currency, holder), encodeAccount(Account{Balance: balance - amount}))
	return nil
}

// Transfer atomically moves the given amount between two holders of the
// same currency. It is the ledger's native payment primitive.
func (t *Tx) Transfer(currency, from, to common.Address, amount uint64) error {
	if err := t.Debit(currency, from, amount); err != nil {
		return err
	}
	return t.Credit(currency, to, amount)
}

// Tree returns the commitment-tree account stored under the given address.
func (t *Tx) Tree(tree common.Address) (TreeAccount, bool, error) {
	data, found, err := t.get(TreeSpace, tree)
	if err != nil || !found {
		return TreeAccount{}, false, err
	}
	account, err := decodeTreeAccount(data)
	if err != nil {
		return TreeAccount{}, false, err
	}
	return account, true, nil
}

// PutTree stores the given commitment-tree account.
func (t *Tx) PutTree(tree common.Address, account TreeAccount) {
	t.set(TreeSpace, tree, encodeTreeAccount(account))
}

// Order returns the raw order record stored under the given address. The
// record layout is owned by the market package.
func (t *Tx) Order(id common.Address) ([]byte, bool, error) {
	return t.get(OrderSpace, id)
}

// PutOrder stores the given raw order record.
func (t *Tx) PutOrder(id common.Address, data []byte) {
	t.set(OrderSpace, id, data)
}

// DeleteOrder removes the order record stored under the given address.
func (t *Tx) DeleteOrder(id common.Address) {
	t.delete(OrderSpace, id)
}

// Commit applies all buffered mutations to the store as one atomic batch;
// a failing store leaves all of them unapplied. After Commit the scope is
// closed.
func (t *Tx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction scope already closed")
	}
	t.done = true
	updates := make([]Update, 0, len(t.writes))
	for key, write := range t.writes {
		updates = append(updates, Update{Key: key, Value: write.value, Deleted: write.deleted})
	}
	if err := t.store.Apply(updates); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Abort discards all buffered mutations. The store is left exactly as it
// was when the scope was opened. Aborting a closed scope is a no-op.
func (t *Tx) Abort() {
	t.done = true
	t.writes = nil
}
