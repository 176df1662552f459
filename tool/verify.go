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
	"encoding/json"
	"fmt"
	"os"

	"github.com/0xsoniclabs/canopy/commitment"
	"github.com/0xsoniclabs/canopy/common"
	"github.com/urfave/cli/v2"
)

var VerifyCmd = cli.Command{
	Action:    doVerify,
	Name:      "verify",
	Usage:     "verify a proof bundle file against its embedded root",
	ArgsUsage: "<bundle file>",
	Flags: []cli.Flag{
		&maxDepthFlag,
	},
}

var maxDepthFlag = cli.UintFlag{
	Name:  "max-depth",
	Usage: "maximum tree depth to accept",
	Value: 30,
}

// bundleFile is the JSON layout of a proof bundle as produced by the
// off-chain indexer's export endpoint.
type bundleFile struct {
	Tree      common.Address `json:"tree"`
	Root      common.Hash    `json:"root"`
	LeafIndex uint32         `json:"leaf_index"`
	LeafHash  common.Hash    `json:"leaf_hash"`
	Path      []common.Hash  `json:"proof"`
	Seq       uint64         `json:"seq"`
}

func doVerify(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing bundle file parameter")
	}
	data, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read bundle file: %w", err)
	}
	var bundle bundleFile
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("failed to parse bundle file: %w", err)
	}

	maxDepth := uint8(context.Uint(maxDepthFlag.Name))
	err = commitment.VerifyProof(bundle.Root, bundle.LeafHash, bundle.LeafIndex, bundle.Path, maxDepth)
	if err != nil {
		return err
	}
	fmt.Printf("proof for leaf %d of tree %v is valid for root %v (seq %d)\n",
		bundle.LeafIndex, bundle.Tree, bundle.Root, bundle.Seq)
	return nil
}
