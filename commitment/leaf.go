// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package commitment implements the cryptographic core of the trading
// protocol: the authentication of compressed assets against a keccak256
// binary Merkle commitment tree, and the recomputation of the tree root
// after a verified leaf mutation.
//
// Assets are never stored as discrete records. An asset exists only as a
// leaf in a shared commitment tree, and every operation touching it must
// first prove the claimed leaf state against the tree's current root using
// a sibling path supplied by an off-chain indexer.
package commitment

import (
	"github.com/0xsoniclabs/canopy/common"
)

// Domain-separation prefixes for the two hash usages in the tree. Leaves and
// inner nodes must never be confusable, otherwise a crafted leaf could stand
// in for an inner node of another proof.
var (
	leafPrefix = []byte{0x00}
	nodePrefix = []byte{0x01}
)

// Leaf is the logical state of one compressed asset. It is hashed into a
// single digest before being placed in the commitment tree; the individual
// fields are only ever reconstructed from off-chain data and re-verified.
type Leaf struct {
	// Owner is the public key controlling the asset.
	Owner common.Address
	// Delegate is an optional key authorized to transfer on the owner's
	// behalf. The zero address means no delegate is set.
	Delegate common.Address
	// DataHash is the digest of the asset's metadata, including its
	// royalty basis points (see HashMetadata).
	DataHash common.Hash
	// CreatorHash binds the creator set and royalty shares (see
	// HashCreators).
	CreatorHash common.Hash
	// Nonce is the monotonically assigned index under which the leaf was
	// minted. Together with the tree it identifies the asset.
	Nonce uint64
}

// Hash computes the leaf digest placed in the commitment tree.
func (l Leaf) Hash() common.Hash {
	return common.Keccak256(
		leafPrefix,
		l.Owner[:],
		l.Delegate[:],
		common.Uint64ToBytes(l.Nonce),
		l.DataHash[:],
		l.CreatorHash[:],
	)
}

// WithOwner returns a copy of the leaf reassigned to the given owner. Any
// delegate authority is revoked by the transfer.
func (l Leaf) WithOwner(owner common.Address) Leaf {
	res := l
	res.Owner = owner
	res.Delegate = common.Address{}
	return res
}

// AssetRef identifies one asset and snapshots its proven state. Order
// records embed an AssetRef at creation time; at settlement time the
// snapshot is compared against the freshly proven leaf to detect assets
// that moved out-of-band.
type AssetRef struct {
	// Tree is the address of the commitment-tree account holding the leaf.
	Tree common.Address
	// Index is the position of the leaf in the tree.
	Index uint32
	// Nonce is the mint nonce of the leaf.
	Nonce uint64
	// LeafHash is the leaf digest at the time the reference was taken.
	LeafHash common.Hash
}

// AssetID returns the deterministic identity of the asset, derived from the
// tree and the mint nonce. It is stable across ownership changes.
func (r AssetRef) AssetID() common.Address {
	return common.DeriveAddress("asset", r.Tree[:], common.Uint64ToBytes(r.Nonce))
}
