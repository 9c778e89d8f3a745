package auction

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
)

// Bidder is the authenticated identity placing a bid. It is asserted
// by the boundary layer, never taken from the request body.
type Bidder struct {
	ID   string
	Name string
}

// Bid is an append-only ledger entry. Once stored it is never mutated
// and only removed by an item cascade delete.
type Bid struct {
	ID         string
	ItemID     string
	BidderID   string
	BidderName string
	Amount     decimal.Decimal
	CreatedAt  time.Time
}

func NewBid(id, itemID string, bidder Bidder, amount decimal.Decimal, now time.Time) (*Bid, error) {
	if bidder.ID == "" {
		return nil, domainErrors.ErrInvalidBidder
	}
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	return &Bid{
		ID:         id,
		ItemID:     itemID,
		BidderID:   bidder.ID,
		BidderName: bidder.Name,
		Amount:     amount,
		CreatedAt:  now,
	}, nil
}
