package use_cases

import (
	"context"
	"fmt"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
	"github.com/okhomin/silent-auction-service/internal/pkg/clock"
	"github.com/okhomin/silent-auction-service/internal/pkg/generator"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

// LifecycleUseCase closes auctions and reports winners. Closing is a
// one-way transition; repeating it neither errors nor changes the
// already determined winner.
type LifecycleUseCase struct {
	repo      ports.AuctionRepository
	cache     ports.Cache
	notifier  ports.Notifier
	publisher ports.EventPublisher
	ids       *generator.IDGenerator
	clk       clock.Clock
	log       *logger.Logger
}

func NewLifecycleUseCase(
	repo ports.AuctionRepository,
	cache ports.Cache,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	clk clock.Clock,
	log *logger.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		repo:      repo,
		cache:     cache,
		notifier:  notifier,
		publisher: publisher,
		ids:       generator.NewIDGenerator(),
		clk:       clk,
		log:       log,
	}
}

// CloseAuction marks the item closed and returns the winner: the bid
// with the greatest amount, earliest created among equal amounts. A
// nil winner with a nil error means the item closed without bids.
func (uc *LifecycleUseCase) CloseAuction(ctx context.Context, itemID string) (*auction.Winner, error) {
	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	alreadyClosed := item.IsClosed()

	if err := uc.repo.CloseItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("close item: %w", err)
	}

	bids, err := uc.repo.BidsForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load ledger for winner: %w", err)
	}
	winner := auction.WinnerFromBid(auction.HighestBid(bids))

	if cerr := uc.cache.MarkItemClosed(ctx, itemID); cerr != nil {
		uc.log.Warn("Failed to mark item closed in cache", "item_id", itemID, "error", cerr.Error())
	}

	if !alreadyClosed {
		event := ports.AuctionClosedEvent{
			EventID:    uc.ids.NewEventID(),
			ItemID:     itemID,
			Winner:     winner,
			OccurredAt: uc.clk.Now(),
		}
		if perr := uc.publisher.PublishAuctionClosed(ctx, event); perr != nil {
			uc.log.Warn("Failed to publish auction-closed event", "item_id", itemID, "error", perr.Error())
		}
	}

	if winner == nil {
		uc.log.Info("Auction closed without bids", "item_id", itemID)
	} else {
		uc.log.Info("Auction closed",
			"item_id", itemID,
			"winner_id", winner.BidderID,
			"amount", winner.Amount.String(),
		)
	}

	return winner, nil
}

// NotifyWinner looks up the current top bid and reports it to the
// notification collaborator. Delivery is fire-and-forget: a notifier
// failure is logged, not surfaced, and never touches auction state.
func (uc *LifecycleUseCase) NotifyWinner(ctx context.Context, itemID string) error {
	if _, err := uc.repo.GetItem(ctx, itemID); err != nil {
		return err
	}

	bids, err := uc.repo.BidsForItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	top := auction.HighestBid(bids)
	if top == nil {
		return domainErrors.ErrNoBids
	}

	if nerr := uc.notifier.NotifyWinner(ctx, top.BidderName, itemID, top.Amount); nerr != nil {
		uc.log.Warn("Winner notification failed",
			"item_id", itemID,
			"bidder_id", top.BidderID,
			"error", nerr.Error(),
		)
	}
	return nil
}
