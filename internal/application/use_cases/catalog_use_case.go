package use_cases

import (
	"context"
	"fmt"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

// CatalogUseCase serves the read paths: the list view and the item
// detail/bidding screen. It is a pure projection over the item store
// and the bid ledger, with no invariants of its own.
type CatalogUseCase struct {
	repo ports.AuctionRepository
	log  *logger.Logger
}

func NewCatalogUseCase(repo ports.AuctionRepository, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, log: log}
}

// ListItems returns all items newest first, each joined with its top
// bid. Items without bids carry their starting price and no bidder.
func (uc *CatalogUseCase) ListItems(ctx context.Context) ([]*auction.CatalogRow, error) {
	rows, err := uc.repo.ListItemsWithTopBids(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return rows, nil
}

// GetItemDetail returns the item with its full bid history, highest
// amount first.
func (uc *CatalogUseCase) GetItemDetail(ctx context.Context, itemID string) (*auction.ItemDetail, error) {
	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	bids, err := uc.repo.BidsForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load bid history: %w", err)
	}

	return &auction.ItemDetail{Item: item, Bids: bids}, nil
}

// ListBids exposes the raw ledger across all items, for admin tooling.
func (uc *CatalogUseCase) ListBids(ctx context.Context) ([]*auction.Bid, error) {
	bids, err := uc.repo.AllBids(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}
