package auction

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
)

// ValidateBid decides whether a proposed amount may be accepted for an
// item given the current top amount. It is pure: the decision depends
// only on its inputs, which keeps it unit-testable without storage.
//
// currentTop is the maximum ledger amount for the item, or the item's
// starting price when the ledger is empty (see TopAmount).
func ValidateBid(item *Item, currentTop, proposed decimal.Decimal) error {
	if item.IsClosed() {
		return domainErrors.ErrAuctionClosed
	}
	if !proposed.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	// Ties are rejected: a bid must be strictly greater.
	if proposed.Cmp(currentTop) <= 0 {
		return domainErrors.ErrBidTooLow
	}
	return nil
}

// TopAmount resolves the current top amount for an item: the highest
// recorded bid, or the starting price when no bids exist.
func TopAmount(item *Item, topBid *Bid) decimal.Decimal {
	if topBid == nil {
		return item.StartingPrice
	}
	return topBid.Amount
}
