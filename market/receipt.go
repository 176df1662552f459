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
	"github.com/0xsoniclabs/canopy/common"
	"github.com/rs/zerolog"
)

// Receipt is the ephemeral record of one completed trade. It is emitted for
// the off-chain indexer to keep its view of the tree and the order set in
// sync; it is never persisted on-chain.
type Receipt struct {
	// Asset is the deterministic identity of the traded asset.
	Asset common.Address
	// Maker and Taker are the two parties of the trade.
	Maker common.Address
	Taker common.Address
	// Price is the gross trade price; Fee and Royalty are the deducted
	// parts, with RoyaltyBreakdown listing the per-creator division.
	Price            uint64
	Fee              uint64
	Royalty          uint64
	RoyaltyBreakdown []CreatorPayout
	// NewRoot and Seq identify the tree state resulting from the trade.
	NewRoot common.Hash
	Seq     uint64
}

// Emitter consumes trade receipts.
type Emitter interface {
	// Emit publishes the given receipt. Emission happens after the
	// settlement committed; emitters must not fail the trade.
	Emit(receipt Receipt)
}

// LogEmitter writes receipts as structured log events.
type LogEmitter struct {
	Log zerolog.Logger
}

// Emit logs the receipt.
func (e LogEmitter) Emit(receipt Receipt) {
	e.Log.Info().
		Stringer("asset", receipt.Asset).
		Stringer("maker", receipt.Maker).
		Stringer("taker", receipt.Taker).
		Uint64("price", receipt.Price).
		Uint64("fee", receipt.Fee).
		Uint64("royalty", receipt.Royalty).
		Stringer("new_root", receipt.NewRoot).
		Uint64("seq", receipt.Seq).
		Msg("trade settled")
}

// ChannelEmitter forwards receipts to a channel, decoupling indexer
// consumption from the settlement path. Receipts are dropped if the channel
// is full; a lagging consumer must not stall trading.
type ChannelEmitter struct {
	C chan Receipt
}

// NewChannelEmitter creates a channel emitter with the given buffer
// capacity.
func NewChannelEmitter(capacity int) *ChannelEmitter {
	return &ChannelEmitter{C: make(chan Receipt, capacity)}
}

// Emit forwards the receipt.
func (e *ChannelEmitter) Emit(receipt Receipt) {
	select {
	case e.C <- receipt:
	default:
	}
}
