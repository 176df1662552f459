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
	"os"
	"path"
	"testing"

	"github.com/0xsoniclabs/canopy/commitment"
	"github.com/0xsoniclabs/canopy/common"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runCmd(t *testing.T, cmd cli.Command, args ...string) error {
	t.Helper()
	app := &cli.App{Commands: []*cli.Command{&cmd}}
	return app.Run(append([]string{"tool", cmd.Name}, args...))
}

func TestVerifyCmd_AcceptsValidBundleFile(t *testing.T) {
	leaf := commitment.Leaf{Owner: common.Address{0: 0x01}, Nonce: 4}
	pathHashes := []common.Hash{
		common.Keccak256([]byte{0x51, 0}),
		common.Keccak256([]byte{0x51, 1}),
	}
	bundle := bundleFile{
		Tree:      common.Address{0: 0x70},
		Root:      commitment.RootFromPath(leaf.Hash(), 3, pathHashes),
		LeafIndex: 3,
		LeafHash:  leaf.Hash(),
		Path:      pathHashes,
		Seq:       1,
	}
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	file := path.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(file, data, 0600))

	require.NoError(t, runCmd(t, VerifyCmd, file))
}

func TestVerifyCmd_RejectsCorruptedBundleFile(t *testing.T) {
	leaf := commitment.Leaf{Owner: common.Address{0: 0x01}, Nonce: 4}
	pathHashes := []common.Hash{common.Keccak256([]byte{0x51, 0})}
	bundle := bundleFile{
		Root:      commitment.RootFromPath(leaf.Hash(), 0, pathHashes),
		LeafIndex: 1, // wrong position
		LeafHash:  leaf.Hash(),
		Path:      pathHashes,
	}
	data, err := json.Marshal(bundle)
	require.NoError(t, err)
	file := path.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(file, data, 0600))

	require.ErrorIs(t, runCmd(t, VerifyCmd, file), commitment.ErrProofMismatch)
}

func TestSplitCmd_PrintsSplitForValidArguments(t *testing.T) {
	err := runCmd(t, SplitCmd, "--royalty-bps", "500", "--shares", "7000", "--shares", "3000", "10000")
	require.NoError(t, err)
}

func TestSplitCmd_RejectsInvalidShares(t *testing.T) {
	err := runCmd(t, SplitCmd, "--royalty-bps", "500", "--shares", "9999", "10000")
	require.Error(t, err)
}

func TestInspectCmd_ReportsMissingTreeAccount(t *testing.T) {
	dir := t.TempDir()
	address := common.Address{0: 0x01}
	text, err := address.MarshalText()
	require.NoError(t, err)

	err = runCmd(t, InspectCmd, path.Join(dir, "db"), string(text))
	require.ErrorContains(t, err, "no tree account")
}
