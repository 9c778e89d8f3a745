package use_cases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
	"github.com/okhomin/silent-auction-service/internal/pkg/clock"
	"github.com/okhomin/silent-auction-service/internal/pkg/generator"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

// PlaceBidUseCase is the auction engine: it decides whether a proposed
// bid is accepted and, if so, appends it to the ledger and advances
// the item's current price as one unit.
//
// The read-validate-write sequence for one item must never interleave
// with another for the same item. The repository guarantees that by
// holding a per-item lock (GetItemForUpdate) for the duration of the
// transaction; if the storage layer still reports a serialization
// conflict the attempt is retried once with fresh state.
type PlaceBidUseCase struct {
	repo      ports.AuctionRepository
	cache     ports.Cache
	publisher ports.EventPublisher
	ids       *generator.IDGenerator
	clk       clock.Clock
	log       *logger.Logger

	retryAttempts int
	cacheTTL      time.Duration
}

func NewPlaceBidUseCase(
	repo ports.AuctionRepository,
	cache ports.Cache,
	publisher ports.EventPublisher,
	clk clock.Clock,
	log *logger.Logger,
) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		repo:          repo,
		cache:         cache,
		publisher:     publisher,
		ids:           generator.NewIDGenerator(),
		clk:           clk,
		log:           log,
		retryAttempts: 1,
		cacheTTL:      time.Hour,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, itemID string, bidder auction.Bidder, amount decimal.Decimal) (*auction.Bid, error) {
	if bidder.ID == "" {
		return nil, domainErrors.ErrInvalidBidder
	}

	if rejected, err := uc.fastReject(ctx, itemID, amount); err != nil {
		uc.log.Warn("Cache pre-check unavailable, falling through to storage",
			"item_id", itemID, "error", err.Error())
	} else if rejected != nil {
		return nil, rejected
	}

	var (
		bid     *auction.Bid
		prevTop decimal.Decimal
		err     error
	)
	for attempt := 0; ; attempt++ {
		bid, prevTop, err = uc.attemptPlaceBid(ctx, itemID, bidder, amount)
		if err == nil || !domainErrors.IsConflict(err) || attempt >= uc.retryAttempts {
			break
		}
		uc.log.Warn("Bid lost a concurrent race, retrying with fresh state",
			"item_id", itemID, "bidder_id", bidder.ID, "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info("Bid accepted",
		"item_id", itemID,
		"bid_id", bid.ID,
		"bidder_id", bidder.ID,
		"amount", bid.Amount.String(),
		"previous_top", prevTop.String(),
	)

	if cerr := uc.cache.UpdateTopBid(ctx, itemID, bid.Amount, bid.BidderName, uc.cacheTTL); cerr != nil {
		uc.log.Warn("Failed to update top-bid cache", "item_id", itemID, "error", cerr.Error())
	}

	event := ports.BidAcceptedEvent{
		EventID:     uc.ids.NewEventID(),
		ItemID:      itemID,
		BidID:       bid.ID,
		BidderID:    bid.BidderID,
		Amount:      bid.Amount,
		PreviousTop: prevTop,
		OccurredAt:  bid.CreatedAt,
	}
	if perr := uc.publisher.PublishBidAccepted(ctx, event); perr != nil {
		uc.log.Warn("Failed to publish bid-accepted event", "item_id", itemID, "bid_id", bid.ID, "error", perr.Error())
	}

	return bid, nil
}

// fastReject answers the cheap definite rejections from the cache.
// The closed set only ever grows, and the cached top bid is a lower
// bound on the true top (it is written after commit, monotonically),
// so both rejections here are sound without touching storage.
// Acceptance always goes through the transactional path, which also
// owns item-existence and amount validation.
func (uc *PlaceBidUseCase) fastReject(ctx context.Context, itemID string, amount decimal.Decimal) (reject error, err error) {
	closed, err := uc.cache.IsItemClosed(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if closed {
		return domainErrors.ErrAuctionClosed, nil
	}

	cached, err := uc.cache.GetTopBid(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if cached != nil && amount.IsPositive() && amount.Cmp(cached.Amount) <= 0 {
		return domainErrors.ErrBidTooLow, nil
	}
	return nil, nil
}

func (uc *PlaceBidUseCase) attemptPlaceBid(ctx context.Context, itemID string, bidder auction.Bidder, amount decimal.Decimal) (*auction.Bid, decimal.Decimal, error) {
	txRepo, err := uc.repo.BeginTx(ctx)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = txRepo.RollbackTx(ctx)
		}
	}()

	// Locks the item row: the per-item critical section starts here.
	item, err := txRepo.GetItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	currentTop := item.StartingPrice
	if maxAmount, ok, merr := txRepo.MaxBidAmount(ctx, itemID); merr != nil {
		return nil, decimal.Zero, fmt.Errorf("query current top bid: %w", merr)
	} else if ok {
		currentTop = maxAmount
	}

	if verr := auction.ValidateBid(item, currentTop, amount); verr != nil {
		return nil, decimal.Zero, verr
	}

	bid, err := auction.NewBid(uc.ids.NewBidID(), item.ID, bidder, amount, uc.clk.Now())
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := txRepo.InsertBid(ctx, bid); err != nil {
		return nil, decimal.Zero, fmt.Errorf("persist bid: %w", err)
	}
	if err := txRepo.UpdateItemPrice(ctx, item.ID, amount); err != nil {
		return nil, decimal.Zero, fmt.Errorf("update item price: %w", err)
	}

	if err := txRepo.CommitTx(ctx); err != nil {
		if domainErrors.IsConflict(err) {
			return nil, decimal.Zero, err
		}
		return nil, decimal.Zero, fmt.Errorf("commit bid: %w", err)
	}
	committed = true

	return bid, currentTop, nil
}
