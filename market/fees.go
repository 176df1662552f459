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
	"fmt"

	"github.com/0xsoniclabs/canopy/commitment"
	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/ledger"
	"github.com/holiman/uint256"
)

// bpsDenominator is the number of basis points making up the whole.
const bpsDenominator = 10000

// FeeConfig is the fixed per-deployment fee policy.
type FeeConfig struct {
	// FeeBps is the protocol fee rate in basis points of the trade price.
	FeeBps uint16
	// MaxFeeBps bounds the fee rate a settlement may request; requests
	// outside [0, MaxFeeBps] fail with ErrInvalidFeeBps.
	MaxFeeBps uint16
	// Treasury receives the protocol fee.
	Treasury common.Address
}

// CreatorPayout is one creator's portion of a royalty split.
type CreatorPayout struct {
	Creator common.Address
	Amount  uint64
}

// Split is the complete division of a trade's gross price. The parts always
// sum exactly to the price.
type Split struct {
	// Fee is the protocol fee routed to the treasury.
	Fee uint64
	// Royalty is the total creator royalty; Creators lists its division.
	Royalty uint64
	// SellerProceeds is the remainder paid to the seller.
	SellerProceeds uint64
	// Creators is the per-creator division of Royalty, in creator-set
	// order.
	Creators []CreatorPayout
}

// bpsShare computes value * bps / 10000 in 256-bit arithmetic and checks
// that the result fits the 64-bit amount range.
func bpsShare(value uint64, bps uint16) (uint64, error) {
	product := new(uint256.Int).Mul(
		uint256.NewInt(value),
		uint256.NewInt(uint64(bps)),
	)
	share := product.Div(product, uint256.NewInt(bpsDenominator))
	if !share.IsUint64() {
		return 0, fmt.Errorf("%w: %d bps of %d", ledger.ErrArithmeticOverflow, bps, value)
	}
	return share.Uint64(), nil
}

// ComputeSplit divides the gross price into protocol fee, creator royalty,
// and seller proceeds. The royalty is divided among the creators in
// proportion to their declared shares, which must sum to 10000 basis
// points; rounding remainders of the integer division are allocated to the
// first creator entry, keeping the split deterministic and reproducible for
// auditing.
func ComputeSplit(price uint64, feeBps, royaltyBps uint16, creators []commitment.Creator) (Split, error) {
	fee, err := bpsShare(price, feeBps)
	if err != nil {
		return Split{}, err
	}
	royalty, err := bpsShare(price, royaltyBps)
	if err != nil {
		return Split{}, err
	}
	if fee > price || royalty > price-fee {
		return Split{}, fmt.Errorf("%w: fee %d and royalty %d exceed price %d",
			ledger.ErrArithmeticOverflow, fee, royalty, price)
	}

	res := Split{
		Fee:            fee,
		Royalty:        royalty,
		SellerProceeds: price - fee - royalty,
	}
	if royalty == 0 && len(creators) == 0 {
		return res, nil
	}

	totalShares := uint64(0)
	res.Creators = make([]CreatorPayout, len(creators))
	distributed := uint64(0)
	for i, creator := range creators {
		totalShares += uint64(creator.Share)
		amount, err := bpsShare(royalty, creator.Share)
		if err != nil {
			return Split{}, err
		}
		res.Creators[i] = CreatorPayout{Creator: creator.Address, Amount: amount}
		distributed += amount
	}
	if totalShares != bpsDenominator {
		return Split{}, fmt.Errorf("%w: shares sum to %d", ErrInvalidRoyaltyShares, totalShares)
	}
	// The integer divisions above can leave a remainder; it goes to the
	// first creator so that the parts sum exactly to the price.
	if remainder := royalty - distributed; remainder > 0 {
		res.Creators[0].Amount += remainder
	}
	return res, nil
}

// validFeeBps checks a requested fee rate against the configured bound.
func (c FeeConfig) validFeeBps(bps uint16) error {
	if bps > c.MaxFeeBps {
		return fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidFeeBps, bps, c.MaxFeeBps)
	}
	return nil
}
