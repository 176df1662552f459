// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package commitment

import (
	"errors"
	"fmt"

	"github.com/0xsoniclabs/canopy/common"
)

var (
	// ErrProofMismatch is returned when the root recomputed from a proof
	// path does not match the stored root.
	ErrProofMismatch = errors.New("recomputed root does not match stored root")
	// ErrDepthExceeded is returned when a proof path is longer than the
	// tree's configured maximum depth.
	ErrDepthExceeded = errors.New("proof depth exceeds maximum tree depth")
	// ErrStaleRoot is returned when a proof bundle was constructed against
	// a root that has since been replaced. The client must fetch a fresh
	// proof and resubmit.
	ErrStaleRoot = errors.New("proof bundle refers to a stale root")
)

// Bundle is a Merkle proof bundle as supplied by the off-chain indexer. The
// protocol only consumes and verifies bundles, it never constructs them.
type Bundle struct {
	// Tree is the address of the commitment-tree account the proof targets.
	Tree common.Address
	// Root is the tree root the path authenticates against.
	Root common.Hash
	// LeafIndex is the position of the proven leaf.
	LeafIndex uint32
	// LeafHash is the claimed digest of the proven leaf.
	LeafHash common.Hash
	// Path holds the sibling digests from the leaf level up to the root.
	Path []common.Hash
	// Seq is the root sequence number the bundle was constructed against.
	Seq uint64
}

// CheckFreshness compares the bundle against the authoritative root and
// sequence number of the tree account. A mismatch of either means the tree
// mutated between proof construction and submission, and the bundle fails
// with ErrStaleRoot. This is the optimistic-concurrency guard: of two
// settlements racing on the same tree, the loser fails here.
func (b Bundle) CheckFreshness(root common.Hash, seq uint64) error {
	if b.Seq != seq {
		return fmt.Errorf("%w: bundle seq %d, tree seq %d", ErrStaleRoot, b.Seq, seq)
	}
	if b.Root != root {
		return fmt.Errorf("%w: bundle root %v, tree root %v", ErrStaleRoot, b.Root, root)
	}
	return nil
}

// combine hashes a pair of sibling nodes into their parent node.
func combine(left, right common.Hash) common.Hash {
	return common.Keccak256(nodePrefix, left[:], right[:])
}

// RootFromPath folds the given leaf hash up the sibling path and returns
// the implied root. The bit of the leaf index at each level selects whether
// the running hash is the left or the right input of the combine step. The
// function is exposed for proof tooling; on-chain callers use VerifyProof
// and Replace.
func RootFromPath(leafHash common.Hash, index uint32, path []common.Hash) common.Hash {
	node := leafHash
	for level, sibling := range path {
		if index>>uint(level)&1 == 0 {
			node = combine(node, sibling)
		} else {
			node = combine(sibling, node)
		}
	}
	return node
}

// VerifyProof authenticates a claimed leaf hash against the given root by
// recomputing the root from the sibling path. It succeeds iff the recomputed
// root equals the stored root exactly. The function is pure; it performs no
// side effects.
func VerifyProof(root common.Hash, leafHash common.Hash, index uint32, path []common.Hash, maxDepth uint8) error {
	if len(path) > int(maxDepth) {
		return fmt.Errorf("%w: path length %d, max depth %d", ErrDepthExceeded, len(path), maxDepth)
	}
	if got := RootFromPath(leafHash, index, path); got != root {
		return fmt.Errorf("%w: computed %v, stored %v", ErrProofMismatch, got, root)
	}
	return nil
}

// Replace authenticates the old leaf against the given root and computes the
// root resulting from replacing it with the new leaf, reusing the same
// sibling path. Both steps happen in a single pass over the path, so there
// is no gap between the authentication of the path and its reuse for the
// update. The function is pure; persisting the returned root is the
// caller's responsibility.
func Replace(root common.Hash, oldLeaf, newLeaf Leaf, index uint32, path []common.Hash, maxDepth uint8) (common.Hash, error) {
	if err := VerifyProof(root, oldLeaf.Hash(), index, path, maxDepth); err != nil {
		return common.Hash{}, err
	}
	return RootFromPath(newLeaf.Hash(), index, path), nil
}
