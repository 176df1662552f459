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
	"testing"

	"github.com/0xsoniclabs/canopy/common"
	"github.com/stretchr/testify/require"
)

func testCreators() []Creator {
	return []Creator{
		{Address: common.Address{0: 0x11}, Verified: true, Share: 7000},
		{Address: common.Address{0: 0x12}, Verified: false, Share: 3000},
	}
}

func TestVerifyCreators_AcceptsMatchingSet(t *testing.T) {
	creators := testCreators()
	require.NoError(t, VerifyCreators(creators, HashCreators(creators)))
}

func TestVerifyCreators_DetectsAnyAlteration(t *testing.T) {
	creators := testCreators()
	hash := HashCreators(creators)

	tests := map[string]func([]Creator) []Creator{
		"changed address": func(c []Creator) []Creator {
			c[0].Address = common.Address{0: 0x13}
			return c
		},
		"changed share": func(c []Creator) []Creator {
			c[0].Share = 6999
			c[1].Share = 3001
			return c
		},
		"flipped verified": func(c []Creator) []Creator {
			c[1].Verified = true
			return c
		},
		"dropped entry": func(c []Creator) []Creator {
			return c[:1]
		},
		"added entry": func(c []Creator) []Creator {
			return append(c, Creator{Address: common.Address{0: 0x14}})
		},
	}

	for name, alter := range tests {
		t.Run(name, func(t *testing.T) {
			altered := alter(testCreators())
			require.ErrorIs(t, VerifyCreators(altered, hash), ErrCreatorMismatch)
		})
	}
}

func TestHashCreators_EmptySetHasStableHash(t *testing.T) {
	require.Equal(t, HashCreators(nil), HashCreators([]Creator{}))
}

func TestVerifyMetadata_BindsRoyaltyRate(t *testing.T) {
	metadata := common.Keccak256([]byte("metadata"))
	dataHash := HashMetadata(metadata, 500)

	require.NoError(t, VerifyMetadata(metadata, 500, dataHash))
	require.ErrorIs(t, VerifyMetadata(metadata, 499, dataHash), ErrMetadataMismatch)
	require.ErrorIs(t, VerifyMetadata(common.Keccak256([]byte("other")), 500, dataHash), ErrMetadataMismatch)
}
