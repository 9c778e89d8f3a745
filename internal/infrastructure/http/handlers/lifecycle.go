package handlers

import (
	"net/http"

	"github.com/okhomin/silent-auction-service/internal/application/commands"
	"github.com/okhomin/silent-auction-service/internal/application/use_cases"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/response"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type LifecycleHandler struct {
	closeHandler     *commands.CloseAuctionHandler
	lifecycleUseCase *use_cases.LifecycleUseCase
	logger           *logger.Logger
}

func NewLifecycleHandler(closeHandler *commands.CloseAuctionHandler, lifecycleUseCase *use_cases.LifecycleUseCase, logger *logger.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		closeHandler:     closeHandler,
		lifecycleUseCase: lifecycleUseCase,
		logger:           logger,
	}
}

func (h *LifecycleHandler) HandleCloseAuction(w http.ResponseWriter, r *http.Request, itemID string) {
	ctx := r.Context()

	result, err := h.closeHandler.Handle(ctx, commands.CloseAuctionCommand{ItemID: itemID})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordAuctionClosed()
	response.WriteSuccess(w, result)
}

type NotifyWinnerResponse struct {
	ItemID   string `json:"item_id"`
	Notified bool   `json:"notified"`
}

func (h *LifecycleHandler) HandleNotifyWinner(w http.ResponseWriter, r *http.Request, itemID string) {
	ctx := r.Context()

	if err := h.lifecycleUseCase.NotifyWinner(ctx, itemID); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, NotifyWinnerResponse{
		ItemID:   itemID,
		Notified: true,
	})
}
