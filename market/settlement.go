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
	"github.com/0xsoniclabs/canopy/common/result"
	"github.com/0xsoniclabs/canopy/ledger"
	"github.com/rs/zerolog"
)

// Step is the progress marker of one settlement attempt. Every attempt
// walks the steps in order; any failing step short-circuits the remaining
// ones and the attempt ends Rejected with no persisted effects.
type Step uint8

const (
	Received Step = iota
	ProofVerified
	OrderValidated
	FundsLocked
	AssetTransferred
	FeesSettled
	Committed
	Rejected
)

// String returns a human-readable name of the settlement step.
func (s Step) String() string {
	switch s {
	case Received:
		return "received"
	case ProofVerified:
		return "proof-verified"
	case OrderValidated:
		return "order-validated"
	case FundsLocked:
		return "funds-locked"
	case AssetTransferred:
		return "asset-transferred"
	case FeesSettled:
		return "fees-settled"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// SettleRequest is a taker's instruction to consume a maker order. The
// proof bundle and the asset's creator/royalty metadata come from the
// off-chain indexer; the engine verifies all of it before moving funds.
type SettleRequest struct {
	// Taker signs the instruction. For a listing the taker is the buyer;
	// for a bid the taker is the asset owner accepting the bid.
	Taker common.Address
	// OrderID addresses the order record to consume.
	OrderID common.Address
	// Receiver optionally redirects the asset on a listing purchase. The
	// zero address means the taker receives it.
	Receiver common.Address
	// Bundle is the Merkle proof bundle for the asset's current leaf.
	Bundle commitment.Bundle
	// Leaf is the claimed current leaf state; it must hash to the
	// bundle's leaf hash.
	Leaf commitment.Leaf
	// Creators is the asset's creator set, verified against the leaf's
	// creator hash.
	Creators []commitment.Creator
	// MetadataHash and RoyaltyBps are verified against the leaf's data
	// hash, binding the royalty rate to the proven asset.
	MetadataHash common.Hash
	RoyaltyBps   uint16
}

// settlement is the mutable state threaded through the step chain of one
// attempt.
type settlement struct {
	step Step
	tx   *ledger.Tx
	req  SettleRequest
	now  int64

	tree     ledger.TreeAccount
	order    Order
	buyer    common.Address
	seller   common.Address
	newOwner common.Address
	newRoot  common.Hash
	split    Split
	receipt  Receipt
}

// Engine matches taker instructions against maker orders and executes the
// atomic asset-for-payment exchange. Each settlement attempt runs in a
// single ledger transaction scope; verification failures abort the scope
// with no partial effects.
type Engine struct {
	ledger  *ledger.Ledger
	orders  *Orders
	fees    FeeConfig
	clock   ledger.Clock
	emitter Emitter
	log     zerolog.Logger
}

// NewEngine creates a settlement engine over the given ledger.
func NewEngine(l *ledger.Ledger, orders *Orders, fees FeeConfig, clock ledger.Clock, emitter Emitter, log zerolog.Logger) *Engine {
	return &Engine{
		ledger:  l,
		orders:  orders,
		fees:    fees,
		clock:   clock,
		emitter: emitter,
		log:     log.With().Str("component", "settlement").Logger(),
	}
}

// CreateOrder runs an order-creation instruction in its own transaction
// scope.
func (e *Engine) CreateOrder(signer common.Address, kind Kind, asset commitment.AssetRef, price uint64, currency common.Address, expiry int64) (Order, error) {
	tx := e.ledger.Begin()
	order, err := e.orders.Create(tx, signer, kind, asset, price, currency, expiry, e.clock.Now())
	if err != nil {
		tx.Abort()
		return Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return order, nil
}

// CancelOrder runs a cancellation instruction in its own transaction scope.
func (e *Engine) CancelOrder(signer, id common.Address) (Order, error) {
	tx := e.ledger.Begin()
	order, err := e.orders.Cancel(tx, signer, id, e.clock.Now())
	if err != nil {
		tx.Abort()
		return Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Settle runs one settlement attempt. The step chain orders its checks so
// that the cheapest and most likely failures surface first: root freshness,
// then proof validity, then order status, then balance sufficiency, then
// the transfers. On success the new root is persisted, the order is marked
// filled, and a trade receipt is emitted; on any failure the transaction
// scope is aborted and the specific error is returned.
func (e *Engine) Settle(req SettleRequest) (Receipt, error) {
	s := &settlement{
		step: Received,
		tx:   e.ledger.Begin(),
		req:  req,
		now:  e.clock.Now(),
	}

	res := result.Ok(s)
	res = result.Bind(res, e.verifyProof)
	res = result.Bind(res, e.validateOrder)
	res = result.Bind(res, e.lockFunds)
	res = result.Bind(res, e.transferAsset)
	res = result.Bind(res, e.settleFees)
	res = result.Bind(res, e.commit)

	if _, err := res.Get(); err != nil {
		s.tx.Abort()
		e.log.Warn().
			Stringer("order", req.OrderID).
			Stringer("taker", req.Taker).
			Stringer("failed_at", s.step).
			Err(err).
			Msg("settlement rejected")
		s.step = Rejected
		return Receipt{}, err
	}

	e.emitter.Emit(s.receipt)
	return s.receipt, nil
}

// verifyProof authenticates the claimed leaf against the current tree root.
// Root freshness is checked before any hashing so that racing settlements
// fail fast with a stale-root error.
func (e *Engine) verifyProof(s *settlement) result.Result[*settlement] {
	tree, found, err := s.tx.Tree(s.req.Bundle.Tree)
	if err != nil {
		return result.Err[*settlement](err)
	}
	if !found {
		return result.Err[*settlement](fmt.Errorf("%w: %v", ErrUnknownTree, s.req.Bundle.Tree))
	}
	s.tree = tree

	if err := s.req.Bundle.CheckFreshness(tree.Root, tree.Seq); err != nil {
		return result.Err[*settlement](err)
	}
	leafHash := s.req.Leaf.Hash()
	if leafHash != s.req.Bundle.LeafHash {
		return result.Err[*settlement](fmt.Errorf("%w: leaf fields hash to %v, bundle claims %v",
			commitment.ErrProofMismatch, leafHash, s.req.Bundle.LeafHash))
	}
	if err := commitment.VerifyProof(tree.Root, leafHash, s.req.Bundle.LeafIndex, s.req.Bundle.Path, tree.MaxDepth); err != nil {
		return result.Err[*settlement](err)
	}
	if err := commitment.VerifyCreators(s.req.Creators, s.req.Leaf.CreatorHash); err != nil {
		return result.Err[*settlement](err)
	}
	if err := commitment.VerifyMetadata(s.req.MetadataHash, s.req.RoyaltyBps, s.req.Leaf.DataHash); err != nil {
		return result.Err[*settlement](err)
	}
	s.step = ProofVerified
	return result.Ok(s)
}

// validateOrder loads the order, derives the trade roles from its kind, and
// checks that the proven owner is entitled to sell.
func (e *Engine) validateOrder(s *settlement) result.Result[*settlement] {
	order, err := e.orders.Get(s.tx, s.req.OrderID)
	if err != nil {
		return result.Err[*settlement](err)
	}
	s.order = order

	// The lifecycle checks come first so that a consumed or expired order is
	// reported as such even when the proven asset state drifted as well.
	proven := commitment.AssetRef{
		Tree:     s.req.Bundle.Tree,
		Index:    s.req.Bundle.LeafIndex,
		Nonce:    s.req.Leaf.Nonce,
		LeafHash: s.req.Bundle.LeafHash,
	}
	if err := e.orders.ValidateForSettlement(order, proven, s.now); err != nil {
		return result.Err[*settlement](err)
	}

	switch order.Kind {
	case Listing:
		// The maker sells; the taker buys. The proven owner must still be
		// the maker, otherwise the listing is stale.
		if s.req.Leaf.Owner != order.Maker {
			return result.Err[*settlement](fmt.Errorf("%w: asset owned by %v, listed by %v",
				ErrAssetMismatch, s.req.Leaf.Owner, order.Maker))
		}
		s.seller = order.Maker
		s.buyer = s.req.Taker
		s.newOwner = s.req.Receiver
		if s.newOwner.IsZero() {
			s.newOwner = s.req.Taker
		}
	case Bid:
		// The maker buys; the taker is the asset owner (or its delegate)
		// accepting the bid. Proceeds go to the owner.
		if s.req.Leaf.Owner != s.req.Taker && s.req.Leaf.Delegate != s.req.Taker {
			return result.Err[*settlement](fmt.Errorf("%w: taker %v does not control asset owned by %v",
				ErrUnauthorized, s.req.Taker, s.req.Leaf.Owner))
		}
		s.seller = s.req.Leaf.Owner
		s.buyer = order.Maker
		s.newOwner = order.Maker
	default:
		return result.Err[*settlement](fmt.Errorf("unknown order kind %d", order.Kind))
	}

	s.step = OrderValidated
	return result.Ok(s)
}

// lockFunds computes the fee split and moves the gross price out of the
// buyer's balance into the transaction scope, where it is distributed by
// settleFees.
func (e *Engine) lockFunds(s *settlement) result.Result[*settlement] {
	if err := e.fees.validFeeBps(e.fees.FeeBps); err != nil {
		return result.Err[*settlement](err)
	}
	split, err := ComputeSplit(s.order.Price, e.fees.FeeBps, s.req.RoyaltyBps, s.req.Creators)
	if err != nil {
		return result.Err[*settlement](err)
	}
	s.split = split
	if err := s.tx.Debit(s.order.Currency, s.buyer, s.order.Price); err != nil {
		return result.Err[*settlement](err)
	}
	s.step = FundsLocked
	return result.Ok(s)
}

// transferAsset reassigns the leaf to the new owner and advances the tree
// root. The proof path was authenticated by verifyProof within this same
// attempt against the same root, so reusing it here is sound.
func (e *Engine) transferAsset(s *settlement) result.Result[*settlement] {
	newLeaf := s.req.Leaf.WithOwner(s.newOwner)
	newRoot, err := commitment.Replace(
		s.tree.Root, s.req.Leaf, newLeaf,
		s.req.Bundle.LeafIndex, s.req.Bundle.Path, s.tree.MaxDepth)
	if err != nil {
		return result.Err[*settlement](err)
	}
	s.newRoot = newRoot
	s.tx.PutTree(s.req.Bundle.Tree, ledger.TreeAccount{
		Root:     newRoot,
		Seq:      s.tree.Seq + 1,
		MaxDepth: s.tree.MaxDepth,
	})
	s.step = AssetTransferred
	return result.Ok(s)
}

// settleFees distributes the locked funds: proceeds to the seller, the
// protocol fee to the treasury, and the royalty to the creators.
func (e *Engine) settleFees(s *settlement) result.Result[*settlement] {
	currency := s.order.Currency
	if err := s.tx.Credit(currency, s.seller, s.split.SellerProceeds); err != nil {
		return result.Err[*settlement](err)
	}
	if s.split.Fee > 0 {
		if err := s.tx.Credit(currency, e.fees.Treasury, s.split.Fee); err != nil {
			return result.Err[*settlement](err)
		}
	}
	for _, payout := range s.split.Creators {
		if payout.Amount == 0 {
			continue
		}
		if err := s.tx.Credit(currency, payout.Creator, payout.Amount); err != nil {
			return result.Err[*settlement](err)
		}
	}
	s.step = FeesSettled
	return result.Ok(s)
}

// commit marks the order filled and applies the whole transaction scope.
func (e *Engine) commit(s *settlement) result.Result[*settlement] {
	e.orders.markFilled(s.tx, s.order, s.now)
	s.receipt = Receipt{
		Asset:            s.order.Asset.AssetID(),
		Maker:            s.order.Maker,
		Taker:            s.req.Taker,
		Price:            s.order.Price,
		Fee:              s.split.Fee,
		Royalty:          s.split.Royalty,
		RoyaltyBreakdown: s.split.Creators,
		NewRoot:          s.newRoot,
		Seq:              s.tree.Seq + 1,
	}
	if err := s.tx.Commit(); err != nil {
		return result.Err[*settlement](err)
	}
	s.step = Committed
	e.log.Debug().
		Stringer("order", s.order.ID).
		Stringer("new_root", s.newRoot).
		Uint64("seq", s.receipt.Seq).
		Msg("settlement committed")
	return result.Ok(s)
}
