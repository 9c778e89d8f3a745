package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Notifier reports an auction win to the bidder. Delivery is best
// effort; a failed notification never rolls back auction state.
type Notifier interface {
	NotifyWinner(ctx context.Context, bidderName, itemID string, amount decimal.Decimal) error
}
