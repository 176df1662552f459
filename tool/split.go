// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"strconv"

	"github.com/0xsoniclabs/canopy/commitment"
	"github.com/0xsoniclabs/canopy/market"
	"github.com/urfave/cli/v2"
)

var SplitCmd = cli.Command{
	Action:    doSplit,
	Name:      "split",
	Usage:     "compute the fee and royalty split for a trade price",
	ArgsUsage: "<price>",
	Flags: []cli.Flag{
		&feeBpsFlag,
		&royaltyBpsFlag,
		&sharesFlag,
	},
}

var (
	feeBpsFlag = cli.UintFlag{
		Name:  "fee-bps",
		Usage: "protocol fee rate in basis points",
		Value: 250,
	}
	royaltyBpsFlag = cli.UintFlag{
		Name:  "royalty-bps",
		Usage: "creator royalty rate in basis points",
		Value: 0,
	}
	sharesFlag = cli.UintSliceFlag{
		Name:  "shares",
		Usage: "creator shares in basis points, must sum to 10000",
	}
)

func doSplit(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing price parameter")
	}
	price, err := strconv.ParseUint(context.Args().Get(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	creators := []commitment.Creator{}
	for i, share := range context.UintSlice(sharesFlag.Name) {
		creators = append(creators, commitment.Creator{
			Address: common32(byte(i + 1)),
			Share:   uint16(share),
		})
	}

	split, err := market.ComputeSplit(
		price,
		uint16(context.Uint(feeBpsFlag.Name)),
		uint16(context.Uint(royaltyBpsFlag.Name)),
		creators,
	)
	if err != nil {
		return err
	}

	fmt.Printf("price:    %d\n", price)
	fmt.Printf("fee:      %d\n", split.Fee)
	fmt.Printf("royalty:  %d\n", split.Royalty)
	fmt.Printf("proceeds: %d\n", split.SellerProceeds)
	for i, payout := range split.Creators {
		fmt.Printf("creator %d: %d\n", i+1, payout.Amount)
	}
	return nil
}
