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

	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/common/diagnostics"
	"github.com/0xsoniclabs/canopy/ledger"
	"github.com/0xsoniclabs/canopy/market"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var InspectCmd = cli.Command{
	Action:    diagnostics.WithDiagnostics(doInspect, &diagnosticsFlag, &cpuProfileFlag, &traceFlag),
	Name:      "inspect",
	Usage:     "dump a tree account or order record from a ledger database",
	ArgsUsage: "<db directory> <address>",
	Flags: []cli.Flag{
		&orderFlag,
		&diagnosticsFlag,
		&cpuProfileFlag,
		&traceFlag,
	},
}

var (
	orderFlag = cli.BoolFlag{
		Name:  "order",
		Usage: "interpret the address as an order record instead of a tree account",
	}
	diagnosticsFlag = cli.IntFlag{
		Name:  "diagnostics",
		Usage: "enable diagnostic server at given port",
	}
	cpuProfileFlag = cli.StringFlag{
		Name:  "cpu-profile",
		Usage: "record a CPU profile to the given file",
	}
	traceFlag = cli.StringFlag{
		Name:  "trace",
		Usage: "record an execution trace to the given file",
	}
)

// common32 builds an address with a single marked byte, used for
// placeholder creator identities in command output.
func common32(marker byte) common.Address {
	return common.Address{0: marker}
}

func doInspect(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return fmt.Errorf("missing db directory or address parameter")
	}
	var address common.Address
	if err := address.UnmarshalText([]byte(context.Args().Get(1))); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	store, err := ledger.OpenLevelDbStore(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer store.Close()
	tx := ledger.New(store).Begin()
	defer tx.Abort()

	if context.Bool(orderFlag.Name) {
		order, err := market.NewOrders(0, common.Address{}, zerolog.Nop()).Get(tx, address)
		if err != nil {
			return err
		}
		fmt.Printf("order:    %v\n", order.ID)
		fmt.Printf("kind:     %v\n", order.Kind)
		fmt.Printf("status:   %v\n", order.Status)
		fmt.Printf("maker:    %v\n", order.Maker)
		fmt.Printf("asset:    %v\n", order.Asset.AssetID())
		fmt.Printf("price:    %d\n", order.Price)
		fmt.Printf("currency: %v\n", order.Currency)
		fmt.Printf("expiry:   %d\n", order.Expiry)
		return nil
	}

	tree, found, err := tx.Tree(address)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no tree account at %v", address)
	}
	fmt.Printf("tree:      %v\n", address)
	fmt.Printf("root:      %v\n", tree.Root)
	fmt.Printf("seq:       %d\n", tree.Seq)
	fmt.Printf("max depth: %d\n", tree.MaxDepth)
	return nil
}
