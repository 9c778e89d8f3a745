package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/commands"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/middleware"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/response"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type BidHandler struct {
	placeBidHandler *commands.PlaceBidHandler
	logger          *logger.Logger
}

func NewBidHandler(placeBidHandler *commands.PlaceBidHandler, logger *logger.Logger) *BidHandler {
	return &BidHandler{
		placeBidHandler: placeBidHandler,
		logger:          logger,
	}
}

type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *BidHandler) HandlePlaceBid(w http.ResponseWriter, r *http.Request, itemID string) {
	ctx := r.Context()

	bidder, ok := middleware.BidderFromContext(ctx)
	if !ok {
		response.WriteDomainError(w, domainErrors.ErrInvalidBidder)
		return
	}

	var req PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteDomainError(w, domainErrors.ErrInvalidAmount)
		return
	}

	monitoring.RecordBidAttempt()

	result, err := h.placeBidHandler.Handle(ctx, commands.PlaceBidCommand{
		ItemID: itemID,
		Bidder: bidder,
		Amount: req.Amount,
	})
	if err != nil {
		monitoring.RecordBidRejected(rejectionReason(err))
		response.WriteDomainError(w, err)
		return
	}

	monitoring.RecordBidAccepted()
	response.WriteJSON(w, http.StatusCreated, result)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, domainErrors.ErrAuctionClosed):
		return "auction_closed"
	case errors.Is(err, domainErrors.ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domainErrors.ErrBidConflict):
		return "bid_conflict"
	default:
		return "internal_error"
	}
}
