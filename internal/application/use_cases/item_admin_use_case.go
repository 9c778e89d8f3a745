package use_cases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
	"github.com/okhomin/silent-auction-service/internal/pkg/clock"
	"github.com/okhomin/silent-auction-service/internal/pkg/generator"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

// ItemAdminUseCase covers the admin CRUD surface. The only invariant
// it owns is the cascade: deleting an item removes its whole ledger.
type ItemAdminUseCase struct {
	repo  ports.AuctionRepository
	cache ports.Cache
	ids   *generator.IDGenerator
	clk   clock.Clock
	log   *logger.Logger
}

func NewItemAdminUseCase(repo ports.AuctionRepository, cache ports.Cache, clk clock.Clock, log *logger.Logger) *ItemAdminUseCase {
	return &ItemAdminUseCase{
		repo:  repo,
		cache: cache,
		ids:   generator.NewIDGenerator(),
		clk:   clk,
		log:   log,
	}
}

type CreateItemParams struct {
	Title         string
	Description   string
	ImageURL      string
	StartingPrice decimal.Decimal
}

// UpdateItemParams carries the admin-editable fields; nil means keep.
// StartingPrice, CurrentPrice and Closed are not editable here: the
// price moves only through accepted bids and Closed only through the
// lifecycle controller.
type UpdateItemParams struct {
	Title       *string
	Description *string
	ImageURL    *string
}

func (uc *ItemAdminUseCase) CreateItem(ctx context.Context, params CreateItemParams) (*auction.Item, error) {
	item, err := auction.NewItem(
		uc.ids.NewItemID(),
		params.Title,
		params.Description,
		params.ImageURL,
		params.StartingPrice,
		uc.clk.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	uc.log.Info("Item created", "item_id", item.ID, "title", item.Title, "starting_price", item.StartingPrice.String())
	return item, nil
}

func (uc *ItemAdminUseCase) UpdateItem(ctx context.Context, itemID string, params UpdateItemParams) (*auction.Item, error) {
	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, domainErrors.ErrMissingTitle
		}
		item.Title = *params.Title
	}
	if params.Description != nil {
		item.Description = *params.Description
	}
	if params.ImageURL != nil {
		item.ImageURL = *params.ImageURL
	}

	if err := uc.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	uc.log.Info("Item updated", "item_id", item.ID)
	return item, nil
}

// DeleteItem removes the item and every bid referencing it. The
// repository performs both deletes in one transaction so no orphan
// bids can survive a partial failure.
func (uc *ItemAdminUseCase) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := uc.repo.GetItem(ctx, itemID); err != nil {
		return err
	}

	if err := uc.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if cerr := uc.cache.InvalidateItem(ctx, itemID); cerr != nil {
		uc.log.Warn("Failed to invalidate cache for deleted item", "item_id", itemID, "error", cerr.Error())
	}

	uc.log.Info("Item and its bids deleted", "item_id", itemID)
	return nil
}
