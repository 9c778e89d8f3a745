package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/use_cases"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/response"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type AdminHandler struct {
	itemAdminUseCase *use_cases.ItemAdminUseCase
	catalogUseCase   *use_cases.CatalogUseCase
	logger           *logger.Logger
}

func NewAdminHandler(itemAdminUseCase *use_cases.ItemAdminUseCase, catalogUseCase *use_cases.CatalogUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		itemAdminUseCase: itemAdminUseCase,
		catalogUseCase:   catalogUseCase,
		logger:           logger,
	}
}

type CreateItemRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	StartingPrice decimal.Decimal `json:"starting_price"`
}

type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

func itemResponseFrom(item *auction.Item) ItemSummaryResponse {
	return itemSummaryFromRow(&auction.CatalogRow{
		Item:         item,
		TopBidAmount: item.CurrentPrice,
	})
}

func (h *AdminHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteDomainError(w, domainErrors.ErrInvalidPrice)
		return
	}

	item, err := h.itemAdminUseCase.CreateItem(ctx, use_cases.CreateItemParams{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		StartingPrice: req.StartingPrice,
	})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.logger.Info("Item created", "item_id", item.ID, "title", item.Title)
	response.WriteJSON(w, http.StatusCreated, itemResponseFrom(item))
}

func (h *AdminHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request, itemID string) {
	ctx := r.Context()

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, response.StatusValidationError, "invalid_body", "Request body is not valid JSON")
		return
	}

	item, err := h.itemAdminUseCase.UpdateItem(ctx, itemID, use_cases.UpdateItemParams{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, itemResponseFrom(item))
}

func (h *AdminHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request, itemID string) {
	ctx := r.Context()

	if err := h.itemAdminUseCase.DeleteItem(ctx, itemID); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.logger.Info("Item deleted", "item_id", itemID)
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "item_id": itemID})
}

func (h *AdminHandler) HandleListBids(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bids, err := h.catalogUseCase.ListBids(ctx)
	if err != nil {
		h.logger.Error("Failed to list bids", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	responses := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		responses = append(responses, bidResponseFrom(bid))
	}

	response.WriteSuccess(w, responses)
}
