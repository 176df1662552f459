// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Hash is a 32-byte keccak256 digest. It is used for leaf hashes, creator
// hashes, and commitment-tree roots.
type Hash [32]byte

// HashSize is the number of bytes in a Hash.
const HashSize = 32

// String returns the hex representation of the hash.
func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// Compare orders hashes lexicographically, returning a negative value if h is
// smaller than other, zero if equal, and a positive value otherwise.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// MarshalText encodes the hash as a hex string, making the type usable in
// JSON documents such as proof bundle files.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(h[:])), nil
}

// UnmarshalText decodes the hash from a hex string.
func (h *Hash) UnmarshalText(data []byte) error {
	raw, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}
	if len(raw) != HashSize {
		return fmt.Errorf("invalid hash length %d", len(raw))
	}
	copy(h[:], raw)
	return nil
}

// Address is a 32-byte account identifier. Signer identities, tree accounts,
// order records, and balance accounts are all addressed by this type.
type Address [32]byte

// AddressSize is the number of bytes in an Address.
const AddressSize = 32

// String returns the hex representation of the address.
func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// IsZero reports whether the address is the all-zero address. The zero
// address denotes the native payment currency and is never a valid signer.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText encodes the address as a hex string.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(a[:])), nil
}

// UnmarshalText decodes the address from a hex string.
func (a *Address) UnmarshalText(data []byte) error {
	raw, err := hexutil.Decode(string(data))
	if err != nil {
		return err
	}
	if len(raw) != AddressSize {
		return fmt.Errorf("invalid address length %d", len(raw))
	}
	copy(a[:], raw)
	return nil
}

// Keccak256 computes the keccak256 digest over the concatenation of the
// given byte slices.
func Keccak256(data ...[]byte) Hash {
	return Hash(crypto.Keccak256Hash(data...))
}

// DeriveAddress computes the deterministic address for a protocol-owned
// record. The domain string separates the address spaces of different record
// types, so that, for instance, an order record can never collide with a
// balance account. Clients can recompute these addresses without a directory
// lookup.
func DeriveAddress(domain string, parts ...[]byte) Address {
	data := make([][]byte, 0, len(parts)+1)
	data = append(data, []byte(domain))
	data = append(data, parts...)
	return Address(Keccak256(data...))
}

// Uint64ToBytes encodes the given value in little-endian byte order. It is
// the canonical integer encoding used in leaf hashing and address
// derivation.
func Uint64ToBytes(value uint64) []byte {
	res := make([]byte, 8)
	binary.LittleEndian.PutUint64(res, value)
	return res
}

// Uint32ToBytes encodes the given value in little-endian byte order.
func Uint32ToBytes(value uint32) []byte {
	res := make([]byte, 4)
	binary.LittleEndian.PutUint32(res, value)
	return res
}

// Uint16ToBytes encodes the given value in little-endian byte order.
func Uint16ToBytes(value uint16) []byte {
	res := make([]byte, 2)
	binary.LittleEndian.PutUint16(res, value)
	return res
}
