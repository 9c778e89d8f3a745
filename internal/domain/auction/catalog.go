package auction

import (
	"github.com/shopspring/decimal"
)

// CatalogRow is a list-view projection of an item joined with its top
// bid. TopBidAmount falls back to the starting price and TopBidderName
// stays empty when the item has no bids.
type CatalogRow struct {
	Item          *Item
	TopBidAmount  decimal.Decimal
	TopBidderName string
}

// ItemDetail is the bidding-screen projection: the item plus its full
// bid history, highest amount first.
type ItemDetail struct {
	Item *Item
	Bids []*Bid
}
