// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package market implements the trading core on top of the ledger and the
// commitment verifier: order records with their lifecycle, the fee and
// royalty splitter, and the settlement engine matching takers against
// maker orders.
//
// There is no in-memory order book. Each order is an independent persisted
// record at a deterministic derived address, created by its maker and
// consumed by settlement or cancellation.
package market

import (
	"encoding/binary"
	"fmt"

	"github.com/0xsoniclabs/canopy/commitment"
	"github.com/0xsoniclabs/canopy/common"
	"github.com/0xsoniclabs/canopy/ledger"
	"github.com/rs/zerolog"
)

// Kind discriminates the two order record types.
type Kind uint8

const (
	// Listing is a maker's offer to sell an asset at a fixed price.
	Listing Kind = iota
	// Bid is a maker's offer to buy an asset at a fixed price. Bids are
	// not exclusive; multiple bids may target the same asset.
	Bid
)

// String returns a human-readable name of the order kind.
func (k Kind) String() string {
	switch k {
	case Listing:
		return "listing"
	case Bid:
		return "bid"
	}
	return "unknown"
}

// Status is the lifecycle state of an order record. Filled and Cancelled
// are terminal; a record never leaves a terminal state and is never reused.
type Status uint8

const (
	// Active orders can be settled or cancelled.
	Active Status = iota
	// Filled orders were consumed by a successful settlement.
	Filled
	// Cancelled orders were withdrawn by their maker or the cancel
	// authority.
	Cancelled
)

// String returns a human-readable name of the order status.
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Order is one persisted order record.
type Order struct {
	// ID is the derived address the record is stored under.
	ID common.Address
	// Kind discriminates listings from bids.
	Kind Kind
	// Maker created the order and is the only identity allowed to mutate
	// it (besides the settlement path and the cancel authority).
	Maker common.Address
	// Asset snapshots the proven asset state at creation time.
	Asset commitment.AssetRef
	// Price is the asking (listing) or offered (bid) amount.
	Price uint64
	// Currency is the payment currency; the zero address is the native
	// currency.
	Currency common.Address
	// Expiry is the Unix timestamp after which the order can no longer be
	// settled; zero means no expiry.
	Expiry int64
	// Status is the lifecycle state.
	Status Status
	// CreatedAt and UpdatedAt are ledger timestamps of the record.
	CreatedAt int64
	UpdatedAt int64
}

// ListingID computes the derived address of the listing record for the
// given leaf. There is one listing slot per leaf, which is what makes
// active listings exclusive per asset.
func ListingID(tree common.Address, index uint32) common.Address {
	return common.DeriveAddress("order", tree[:], common.Uint32ToBytes(index))
}

// BidID computes the derived address of the given maker's bid record for
// the given leaf. Including the maker in the derivation makes bids
// per-maker and non-exclusive.
func BidID(tree common.Address, index uint32, maker common.Address) common.Address {
	return common.DeriveAddress("bid", tree[:], common.Uint32ToBytes(index), maker[:])
}

const orderSize = 1 + 1 + common.AddressSize + // kind, status, maker
	common.AddressSize + 4 + 8 + common.HashSize + // asset ref
	8 + common.AddressSize + 8 + 8 + 8 // price, currency, expiry, timestamps

func encodeOrder(o Order) []byte {
	res := make([]byte, 0, orderSize)
	res = append(res, byte(o.Kind), byte(o.Status))
	res = append(res, o.Maker[:]...)
	res = append(res, o.Asset.Tree[:]...)
	res = append(res, common.Uint32ToBytes(o.Asset.Index)...)
	res = append(res, common.Uint64ToBytes(o.Asset.Nonce)...)
	res = append(res, o.Asset.LeafHash[:]...)
	res = append(res, common.Uint64ToBytes(o.Price)...)
	res = append(res, o.Currency[:]...)
	res = append(res, common.Uint64ToBytes(uint64(o.Expiry))...)
	res = append(res, common.Uint64ToBytes(uint64(o.CreatedAt))...)
	res = append(res, common.Uint64ToBytes(uint64(o.UpdatedAt))...)
	return res
}

func decodeOrder(id common.Address, data []byte) (Order, error) {
	if len(data) != orderSize {
		return Order{}, fmt.Errorf("invalid order encoding of %d bytes", len(data))
	}
	res := Order{ID: id, Kind: Kind(data[0]), Status: Status(data[1])}
	pos := 2
	pos += copy(res.Maker[:], data[pos:])
	pos += copy(res.Asset.Tree[:], data[pos:])
	res.Asset.Index = binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	res.Asset.Nonce = binary.LittleEndian.Uint64(data[pos:])
	pos += 8
	pos += copy(res.Asset.LeafHash[:], data[pos:])
	res.Price = binary.LittleEndian.Uint64(data[pos:])
	pos += 8
	pos += copy(res.Currency[:], data[pos:])
	res.Expiry = int64(binary.LittleEndian.Uint64(data[pos:]))
	pos += 8
	res.CreatedAt = int64(binary.LittleEndian.Uint64(data[pos:]))
	pos += 8
	res.UpdatedAt = int64(binary.LittleEndian.Uint64(data[pos:]))
	return res, nil
}

// Orders manages the order record lifecycle within ledger transaction
// scopes.
type Orders struct {
	// MaxPrice is the protocol's price ceiling; zero-priced orders are
	// always rejected.
	MaxPrice uint64
	// CancelAuthority may cancel any active order, covering the expiry
	// sweep. The zero address disables the override.
	CancelAuthority common.Address

	log zerolog.Logger
}

// NewOrders creates an order manager with the given price ceiling and
// cancel authority.
func NewOrders(maxPrice uint64, cancelAuthority common.Address, log zerolog.Logger) *Orders {
	return &Orders{
		MaxPrice:        maxPrice,
		CancelAuthority: cancelAuthority,
		log:             log.With().Str("component", "orders").Logger(),
	}
}

// Create creates an order record, or re-prices an existing active listing
// of the same maker for the same asset. The signer must be the maker. For
// listings, an active listing of another maker for the same asset fails
// with ErrDuplicateActiveListing; terminal records under the listing slot
// are reclaimed.
func (o *Orders) Create(tx *ledger.Tx, signer common.Address, kind Kind, asset commitment.AssetRef, price uint64, currency common.Address, expiry int64, now int64) (Order, error) {
	if signer.IsZero() {
		return Order{}, fmt.Errorf("%w: missing signer", ErrUnauthorized)
	}
	if price == 0 || (o.MaxPrice > 0 && price > o.MaxPrice) {
		return Order{}, fmt.Errorf("%w: %d", ErrInvalidPrice, price)
	}

	var id common.Address
	switch kind {
	case Listing:
		id = ListingID(asset.Tree, asset.Index)
	case Bid:
		id = BidID(asset.Tree, asset.Index, signer)
	default:
		return Order{}, fmt.Errorf("unknown order kind %d", kind)
	}

	existing, found, err := o.load(tx, id)
	if err != nil {
		return Order{}, err
	}
	if found && existing.Status == Active {
		if kind == Listing && existing.Maker != signer {
			return Order{}, fmt.Errorf("%w: maker %v", ErrDuplicateActiveListing, existing.Maker)
		}
		if existing.Asset != asset {
			return Order{}, fmt.Errorf("%w: order snapshots %v", ErrAssetMismatch, existing.Asset.AssetID())
		}
		// Re-pricing an own active order updates it in place.
		existing.Price = price
		existing.Currency = currency
		existing.Expiry = expiry
		existing.UpdatedAt = now
		tx.PutOrder(id, encodeOrder(existing))
		o.log.Debug().Stringer("order", id).Uint64("price", price).Msg("order re-priced")
		return existing, nil
	}

	order := Order{
		ID:        id,
		Kind:      kind,
		Maker:     signer,
		Asset:     asset,
		Price:     price,
		Currency:  currency,
		Expiry:    expiry,
		Status:    Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx.PutOrder(id, encodeOrder(order))
	o.log.Debug().Stringer("order", id).Stringer("kind", kind).Uint64("price", price).Msg("order created")
	return order, nil
}

// Cancel transitions an active order to cancelled. The signer must be the
// maker or the configured cancel authority. Cancelling a terminal order
// fails with ErrAlreadyTerminal.
func (o *Orders) Cancel(tx *ledger.Tx, signer, id common.Address, now int64) (Order, error) {
	order, found, err := o.load(tx, id)
	if err != nil {
		return Order{}, err
	}
	if !found {
		return Order{}, fmt.Errorf("%w: %v", ErrUnknownOrder, id)
	}
	authorized := signer == order.Maker ||
		(!o.CancelAuthority.IsZero() && signer == o.CancelAuthority)
	if !authorized {
		return Order{}, fmt.Errorf("%w: signer %v is not maker of %v", ErrUnauthorized, signer, id)
	}
	if order.Status != Active {
		return Order{}, fmt.Errorf("%w: order is %v", ErrAlreadyTerminal, order.Status)
	}
	order.Status = Cancelled
	order.UpdatedAt = now
	tx.PutOrder(id, encodeOrder(order))
	o.log.Debug().Stringer("order", id).Msg("order cancelled")
	return order, nil
}

// Get loads an order record outside of any settlement flow.
func (o *Orders) Get(tx *ledger.Tx, id common.Address) (Order, error) {
	order, found, err := o.load(tx, id)
	if err != nil {
		return Order{}, err
	}
	if !found {
		return Order{}, fmt.Errorf("%w: %v", ErrUnknownOrder, id)
	}
	return order, nil
}

// ValidateForSettlement checks that the order can be consumed by a
// settlement proving the given asset state: the order must be active, not
// expired, and its asset snapshot must match the proven leaf exactly. A
// leaf-hash difference means the asset was transferred out-of-band since
// the order was created, and the order is stale.
func (o *Orders) ValidateForSettlement(order Order, proven commitment.AssetRef, now int64) error {
	if order.Status != Active {
		return fmt.Errorf("%w: order is %v", ErrNotActive, order.Status)
	}
	if order.Expiry != 0 && now > order.Expiry {
		return fmt.Errorf("%w: expired at %d, now %d", ErrExpired, order.Expiry, now)
	}
	if order.Asset != proven {
		return fmt.Errorf("%w: order snapshots %v, proven %v",
			ErrAssetMismatch, order.Asset.LeafHash, proven.LeafHash)
	}
	return nil
}

// markFilled transitions a validated order to filled. Only the settlement
// engine calls this.
func (o *Orders) markFilled(tx *ledger.Tx, order Order, now int64) Order {
	order.Status = Filled
	order.UpdatedAt = now
	tx.PutOrder(order.ID, encodeOrder(order))
	return order
}

func (o *Orders) load(tx *ledger.Tx, id common.Address) (Order, bool, error) {
	data, found, err := tx.Order(id)
	if err != nil || !found {
		return Order{}, false, err
	}
	order, err := decodeOrder(id, data)
	if err != nil {
		return Order{}, false, err
	}
	return order, true, nil
}
