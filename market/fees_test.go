// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package market

import (
	"math"
	"testing"

	"github.com/0xsoniclabs/canopy/commitment"
	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/ledger"
	"github.com/stretchr/testify/require"
)

func twoCreators() []commitment.Creator {
	return []commitment.Creator{
		{Address: common.Address{0: 0xc1}, Verified: true, Share: 7000},
		{Address: common.Address{0: 0xc2}, Verified: false, Share: 3000},
	}
}

func TestComputeSplit_DividesPriceIntoFeeRoyaltyAndProceeds(t *testing.T) {
	split, err := ComputeSplit(10_000, 250, 500, twoCreators())
	require.NoError(t, err)

	require.Equal(t, uint64(250), split.Fee)
	require.Equal(t, uint64(500), split.Royalty)
	require.Equal(t, uint64(9_250), split.SellerProceeds)
	require.Len(t, split.Creators, 2)
	require.Equal(t, uint64(350), split.Creators[0].Amount)
	require.Equal(t, uint64(150), split.Creators[1].Amount)
}

func TestComputeSplit_PartsAlwaysSumToPrice(t *testing.T) {
	creators := []commitment.Creator{
		{Address: common.Address{0: 0xc1}, Share: 3333},
		{Address: common.Address{0: 0xc2}, Share: 3333},
		{Address: common.Address{0: 0xc3}, Share: 3334},
	}
	for _, price := range []uint64{0, 1, 99, 10_001, 123_456_789} {
		split, err := ComputeSplit(price, 199, 333, creators)
		require.NoError(t, err)

		total := split.Fee + split.SellerProceeds
		for _, payout := range split.Creators {
			total += payout.Amount
		}
		require.Equal(t, price, total, "price %d", price)
	}
}

func TestComputeSplit_RoundingRemainderGoesToFirstCreator(t *testing.T) {
	// A royalty of 1 cannot be divided; the whole unit lands on the first
	// creator entry.
	split, err := ComputeSplit(2, 0, 5000, twoCreators())
	require.NoError(t, err)
	require.Equal(t, uint64(1), split.Royalty)
	require.Equal(t, uint64(1), split.Creators[0].Amount)
	require.Zero(t, split.Creators[1].Amount)
}

func TestComputeSplit_ZeroRoyaltyWithoutCreatorsIsAccepted(t *testing.T) {
	split, err := ComputeSplit(10_000, 250, 0, nil)
	require.NoError(t, err)
	require.Zero(t, split.Royalty)
	require.Equal(t, uint64(9_750), split.SellerProceeds)
	require.Empty(t, split.Creators)
}

func TestComputeSplit_SharesNotSummingToWholeAreRejected(t *testing.T) {
	for _, creators := range [][]commitment.Creator{
		{{Address: common.Address{0: 0xc1}, Share: 9999}},
		{{Address: common.Address{0: 0xc1}, Share: 5000}, {Address: common.Address{0: 0xc2}, Share: 5001}},
		{},
	} {
		_, err := ComputeSplit(10_000, 0, 500, creators)
		require.ErrorIs(t, err, ErrInvalidRoyaltyShares)
	}
}

func TestComputeSplit_FullPriceRatesLeaveNoProceeds(t *testing.T) {
	split, err := ComputeSplit(10_000, 4000, 6000, twoCreators())
	require.NoError(t, err)
	require.Equal(t, uint64(4_000), split.Fee)
	require.Equal(t, uint64(6_000), split.Royalty)
	require.Zero(t, split.SellerProceeds)
}

func TestComputeSplit_LargePricesDoNotOverflow(t *testing.T) {
	split, err := ComputeSplit(math.MaxUint64, 250, 500, twoCreators())
	require.NoError(t, err)

	total := split.Fee + split.Royalty + split.SellerProceeds
	require.Equal(t, uint64(math.MaxUint64), total)
}

func TestFeeConfig_RequestedRateAboveBoundIsRejected(t *testing.T) {
	config := FeeConfig{FeeBps: 250, MaxFeeBps: 500}
	require.NoError(t, config.validFeeBps(0))
	require.NoError(t, config.validFeeBps(500))
	require.ErrorIs(t, config.validFeeBps(501), ErrInvalidFeeBps)
}

func TestBpsShare_ResultOutsideAmountRangeIsRejected(t *testing.T) {
	// 20000 bps doubles the value; on the maximum amount this leaves the
	// 64-bit range.
	_, err := bpsShare(math.MaxUint64, 2*bpsDenominator)
	require.ErrorIs(t, err, ledger.ErrArithmeticOverflow)
}
