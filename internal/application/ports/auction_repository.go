package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/domain/auction"
)

// AuctionRepository is the durable store behind the engine: item
// metadata plus the append-only bid ledger. Bid placement runs inside
// a transaction obtained from BeginTx; GetItemForUpdate is only valid
// on a transactional repository and holds a per-item lock until
// CommitTx or RollbackTx.
type AuctionRepository interface {
	GetItem(ctx context.Context, id string) (*auction.Item, error)
	GetItemForUpdate(ctx context.Context, id string) (*auction.Item, error)
	CreateItem(ctx context.Context, item *auction.Item) error
	UpdateItem(ctx context.Context, item *auction.Item) error
	UpdateItemPrice(ctx context.Context, id string, price decimal.Decimal) error
	CloseItem(ctx context.Context, id string) error
	// DeleteItem removes the item together with all its bids. No orphan
	// bids may survive the call.
	DeleteItem(ctx context.Context, id string) error
	ListItemsWithTopBids(ctx context.Context) ([]*auction.CatalogRow, error)

	InsertBid(ctx context.Context, bid *auction.Bid) error
	// MaxBidAmount returns the highest ledger amount for the item; ok is
	// false when the ledger is empty.
	MaxBidAmount(ctx context.Context, itemID string) (amount decimal.Decimal, ok bool, err error)
	// BidsForItem returns the ledger ordered by amount descending,
	// earliest created first among equal amounts.
	BidsForItem(ctx context.Context, itemID string) ([]*auction.Bid, error)
	// TopBidForItem returns (nil, nil) when the ledger is empty.
	TopBidForItem(ctx context.Context, itemID string) (*auction.Bid, error)
	AllBids(ctx context.Context) ([]*auction.Bid, error)

	BeginTx(ctx context.Context) (AuctionRepository, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}
