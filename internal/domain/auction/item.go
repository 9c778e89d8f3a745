package auction

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
)

// Item is a single auctioned lot. CurrentPrice starts at StartingPrice
// and only ever moves up, through RecordAcceptedBid. Closed is one-way.
type Item struct {
	ID            string
	Title         string
	Description   string
	ImageURL      string
	StartingPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Closed        bool
	CreatedAt     time.Time
}

func NewItem(id, title, description, imageURL string, startingPrice decimal.Decimal, now time.Time) (*Item, error) {
	if title == "" {
		return nil, domainErrors.ErrMissingTitle
	}
	if !startingPrice.IsPositive() {
		return nil, domainErrors.ErrInvalidPrice
	}

	return &Item{
		ID:            id,
		Title:         title,
		Description:   description,
		ImageURL:      imageURL,
		StartingPrice: startingPrice,
		CurrentPrice:  startingPrice,
		Closed:        false,
		CreatedAt:     now,
	}, nil
}

// RecordAcceptedBid advances the cached current price. The caller must
// have validated the amount against the ledger first.
func (i *Item) RecordAcceptedBid(amount decimal.Decimal) {
	i.CurrentPrice = amount
}

// Close marks the item ineligible for further bids. Closing an already
// closed item is a no-op, not an error.
func (i *Item) Close() {
	i.Closed = true
}

func (i *Item) IsClosed() bool {
	return i.Closed
}
