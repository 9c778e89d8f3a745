package commands

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/use_cases"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type PlaceBidCommand struct {
	ItemID string
	Bidder auction.Bidder
	Amount decimal.Decimal
}

type PlaceBidResponse struct {
	BidID      string          `json:"bid_id"`
	ItemID     string          `json:"item_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

type PlaceBidHandler struct {
	placeBidUseCase *use_cases.PlaceBidUseCase
	log             *logger.Logger
}

func NewPlaceBidHandler(placeBidUseCase *use_cases.PlaceBidUseCase, log *logger.Logger) *PlaceBidHandler {
	return &PlaceBidHandler{
		placeBidUseCase: placeBidUseCase,
		log:             log,
	}
}

func (h *PlaceBidHandler) Handle(ctx context.Context, cmd PlaceBidCommand) (*PlaceBidResponse, error) {
	h.log.Info("Processing bid",
		"item_id", cmd.ItemID,
		"bidder_id", cmd.Bidder.ID,
		"amount", cmd.Amount.String(),
	)

	bid, err := h.placeBidUseCase.Execute(ctx, cmd.ItemID, cmd.Bidder, cmd.Amount)
	if err != nil {
		return nil, err
	}

	return &PlaceBidResponse{
		BidID:      bid.ID,
		ItemID:     bid.ItemID,
		BidderName: bid.BidderName,
		Amount:     bid.Amount,
		CreatedAt:  bid.CreatedAt,
	}, nil
}
