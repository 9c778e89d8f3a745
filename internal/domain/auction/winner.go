package auction

import (
	"github.com/shopspring/decimal"
)

// Winner is the outcome of a closed auction. A nil *Winner means the
// item closed without any bids.
type Winner struct {
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// HighestBid selects the winning bid: greatest amount, and among equal
// amounts the earliest created one. Equal amounts cannot be produced
// through ValidateBid, but selection stays deterministic if they ever
// appear in the ledger. Returns nil for an empty ledger.
func HighestBid(bids []*Bid) *Bid {
	var best *Bid
	for _, b := range bids {
		if best == nil {
			best = b
			continue
		}
		switch b.Amount.Cmp(best.Amount) {
		case 1:
			best = b
		case 0:
			if b.CreatedAt.Before(best.CreatedAt) {
				best = b
			}
		}
	}
	return best
}

// WinnerFromBid converts a ledger entry into a winner record.
func WinnerFromBid(b *Bid) *Winner {
	if b == nil {
		return nil
	}
	return &Winner{
		BidderID:   b.BidderID,
		BidderName: b.BidderName,
		Amount:     b.Amount,
	}
}
