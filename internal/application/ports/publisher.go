package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/domain/auction"
)

type BidAcceptedEvent struct {
	EventID     string          `json:"event_id"`
	ItemID      string          `json:"item_id"`
	BidID       string          `json:"bid_id"`
	BidderID    string          `json:"bidder_id"`
	Amount      decimal.Decimal `json:"amount"`
	PreviousTop decimal.Decimal `json:"previous_top"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type AuctionClosedEvent struct {
	EventID    string          `json:"event_id"`
	ItemID     string          `json:"item_id"`
	Winner     *auction.Winner `json:"winner,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventPublisher fans accepted bids and closed auctions out to
// downstream consumers (archival, audit). Publishing is best effort
// from the engine's point of view.
type EventPublisher interface {
	PublishBidAccepted(ctx context.Context, event BidAcceptedEvent) error
	PublishAuctionClosed(ctx context.Context, event AuctionClosedEvent) error
}
