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
	// ErrCreatorMismatch is returned when a supplied creator set does not
	// hash to the creator hash bound into the proven leaf.
	ErrCreatorMismatch = errors.New("creator set does not match leaf creator hash")
	// ErrMetadataMismatch is returned when the supplied metadata digest and
	// royalty rate do not hash to the data hash bound into the proven leaf.
	ErrMetadataMismatch = errors.New("metadata does not match leaf data hash")
)

// Creator is one entry of an asset's creator set. The set is never stored
// on-chain; it is supplied at settlement time and verified against the
// leaf's creator hash.
type Creator struct {
	// Address receives this creator's royalty share.
	Address common.Address
	// Verified reports whether the creator signed off on the asset.
	Verified bool
	// Share is this creator's portion of the royalty, in basis points of
	// the total royalty. All shares of a set must sum to 10000.
	Share uint16
}

// HashCreators computes the digest binding a creator set, as embedded in
// each leaf's CreatorHash field.
func HashCreators(creators []Creator) common.Hash {
	data := make([][]byte, 0, len(creators)*3)
	for i := range creators {
		verified := []byte{0x00}
		if creators[i].Verified {
			verified = []byte{0x01}
		}
		data = append(data, creators[i].Address[:], verified, common.Uint16ToBytes(creators[i].Share))
	}
	return common.Keccak256(data...)
}

// HashMetadata computes the leaf's DataHash from the raw metadata digest and
// the asset's royalty rate. Binding the royalty rate into the proven leaf
// prevents a taker from settling with an understated royalty.
func HashMetadata(metadataHash common.Hash, royaltyBps uint16) common.Hash {
	return common.Keccak256(metadataHash[:], common.Uint16ToBytes(royaltyBps))
}

// VerifyCreators checks that the supplied creator set hashes to the creator
// hash of the proven leaf.
func VerifyCreators(creators []Creator, creatorHash common.Hash) error {
	if got := HashCreators(creators); got != creatorHash {
		return fmt.Errorf("%w: computed %v, leaf %v", ErrCreatorMismatch, got, creatorHash)
	}
	return nil
}

// VerifyMetadata checks that the supplied metadata digest and royalty rate
// hash to the data hash of the proven leaf.
func VerifyMetadata(metadataHash common.Hash, royaltyBps uint16, dataHash common.Hash) error {
	if got := HashMetadata(metadataHash, royaltyBps); got != dataHash {
		return fmt.Errorf("%w: computed %v, leaf %v", ErrMetadataMismatch, got, dataHash)
	}
	return nil
}
