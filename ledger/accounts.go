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
	"encoding/binary"
	"fmt"

	"github.com/0xsoniclabs/canopy/common"
)

// Account is a balance account. One account exists per (currency, holder)
// pair, at a deterministic derived address.
type Account struct {
	// Balance is the held amount in the account's currency.
	Balance uint64
}

const accountSize = 8

func encodeAccount(a Account) []byte {
	res := make([]byte, accountSize)
	binary.LittleEndian.PutUint64(res, a.Balance)
	return res
}

func decodeAccount(data []byte) (Account, error) {
	if len(data) != accountSize {
		return Account{}, fmt.Errorf("invalid account encoding of %d bytes", len(data))
	}
	return Account{Balance: binary.LittleEndian.Uint64(data)}, nil
}

// BalanceAddress computes the derived address of the balance account holding
// the given holder's funds in the given currency. The zero currency address
// denotes the native currency.
func BalanceAddress(currency, holder common.Address) common.Address {
	return common.DeriveAddress("balance", currency[:], holder[:])
}

// TreeAccount is the persisted state of one commitment tree: the current
// root, the root sequence number, and the maximum proof depth the tree
// supports. The root transitions only through the settlement path; the
// sequence number increments exactly once per successful mutation and
// guards against stale-root replays.
type TreeAccount struct {
	// Root is the current commitment digest of the tree.
	Root common.Hash
	// Seq is the number of mutations applied to the tree so far.
	Seq uint64
	// MaxDepth is the configured maximum proof depth of the tree.
	MaxDepth uint8
}

const treeAccountSize = common.HashSize + 8 + 1

func encodeTreeAccount(t TreeAccount) []byte {
	res := make([]byte, treeAccountSize)
	copy(res, t.Root[:])
	binary.LittleEndian.PutUint64(res[common.HashSize:], t.Seq)
	res[common.HashSize+8] = t.MaxDepth
	return res
}

func decodeTreeAccount(data []byte) (TreeAccount, error) {
	if len(data) != treeAccountSize {
		return TreeAccount{}, fmt.Errorf("invalid tree account encoding of %d bytes", len(data))
	}
	res := TreeAccount{}
	copy(res.Root[:], data[:common.HashSize])
	res.Seq = binary.LittleEndian.Uint64(data[common.HashSize:])
	res.MaxDepth = data[common.HashSize+8]
	return res, nil
}
