package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopBidSummary is the cached read-path view of an item's leading bid.
type TopBidSummary struct {
	Amount     decimal.Decimal
	BidderName string
}

// Cache accelerates the read path and the closed-item fast rejection.
// It is never authoritative for bid acceptance; postgres is.
type Cache interface {
	// GetTopBid returns nil when the item has no cached entry.
	GetTopBid(ctx context.Context, itemID string) (*TopBidSummary, error)
	// UpdateTopBid stores the summary only if amount is greater than the
	// cached one, so late writers cannot regress the cache.
	UpdateTopBid(ctx context.Context, itemID string, amount decimal.Decimal, bidderName string, ttl time.Duration) error
	InvalidateItem(ctx context.Context, itemID string) error

	// Closing is one-way, so set membership can reject bids on closed
	// items without a storage round trip.
	MarkItemClosed(ctx context.Context, itemID string) error
	IsItemClosed(ctx context.Context, itemID string) (bool, error)

	DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
