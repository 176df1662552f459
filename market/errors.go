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

import "errors"

// Error kinds surfaced by order management and settlement. All of them are
// terminal for the submitted transaction; no partial effects persist and
// nothing is retried internally. Clients observing ErrStaleRoot or
// ErrAssetMismatch (see the commitment package) are expected to re-fetch
// the current root and proof and resubmit.
var (
	// ErrUnauthorized is returned when the signer is not entitled to the
	// requested mutation.
	ErrUnauthorized = errors.New("signer not authorized")
	// ErrDuplicateActiveListing is returned when a listing is created for
	// an asset that already has an active listing by another maker.
	ErrDuplicateActiveListing = errors.New("active listing already exists for asset")
	// ErrNotActive is returned when settlement targets an order that is not
	// in the active state.
	ErrNotActive = errors.New("order is not active")
	// ErrExpired is returned when settlement targets an order past its
	// expiry.
	ErrExpired = errors.New("order is expired")
	// ErrAssetMismatch is returned when the proven leaf state no longer
	// matches the asset snapshot recorded in the order, meaning the asset
	// moved since the order was created.
	ErrAssetMismatch = errors.New("proven asset does not match order record")
	// ErrAlreadyTerminal is returned when cancelling an order that is
	// already filled or cancelled. Terminal states are absorbing.
	ErrAlreadyTerminal = errors.New("order is already in a terminal state")
	// ErrInvalidPrice is returned when an order price is zero or exceeds
	// the protocol's price ceiling.
	ErrInvalidPrice = errors.New("invalid order price")
	// ErrInvalidFeeBps is returned when a requested fee rate lies outside
	// the deployment's configured bounds.
	ErrInvalidFeeBps = errors.New("fee basis points out of bounds")
	// ErrInvalidRoyaltyShares is returned when the creator shares of a
	// royalty split do not sum to 10000 basis points.
	ErrInvalidRoyaltyShares = errors.New("creator shares must sum to 10000")
	// ErrUnknownOrder is returned when the referenced order record does
	// not exist.
	ErrUnknownOrder = errors.New("unknown order")
	// ErrUnknownTree is returned when the referenced commitment-tree
	// account does not exist.
	ErrUnknownTree = errors.New("unknown commitment tree")
)
