package commands

import (
	"context"

	"github.com/okhomin/silent-auction-service/internal/application/use_cases"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type CloseAuctionCommand struct {
	ItemID string
}

type CloseAuctionResponse struct {
	ItemID string          `json:"item_id"`
	Closed bool            `json:"closed"`
	Winner *auction.Winner `json:"winner,omitempty"`
}

type CloseAuctionHandler struct {
	lifecycleUseCase *use_cases.LifecycleUseCase
	log              *logger.Logger
}

func NewCloseAuctionHandler(lifecycleUseCase *use_cases.LifecycleUseCase, log *logger.Logger) *CloseAuctionHandler {
	return &CloseAuctionHandler{
		lifecycleUseCase: lifecycleUseCase,
		log:              log,
	}
}

func (h *CloseAuctionHandler) Handle(ctx context.Context, cmd CloseAuctionCommand) (*CloseAuctionResponse, error) {
	h.log.Info("Closing auction", "item_id", cmd.ItemID)

	winner, err := h.lifecycleUseCase.CloseAuction(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}

	return &CloseAuctionResponse{
		ItemID: cmd.ItemID,
		Closed: true,
		Winner: winner,
	}, nil
}
