package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okhomin/silent-auction-service/internal/application/use_cases"
	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/response"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

type CatalogHandler struct {
	catalogUseCase *use_cases.CatalogUseCase
	logger         *logger.Logger
}

func NewCatalogHandler(catalogUseCase *use_cases.CatalogUseCase, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
		logger:         logger,
	}
}

type ItemSummaryResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Closed        bool            `json:"is_closed"`
	CreatedAt     string          `json:"created_at"`
	TopBidAmount  decimal.Decimal `json:"top_bid_amount"`
	TopBidderName string          `json:"top_bidder_name,omitempty"`
}

type BidResponse struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  string          `json:"created_at"`
}

type ItemDetailResponse struct {
	ItemSummaryResponse
	Bids []BidResponse `json:"bids"`
}

func itemSummaryFromRow(row *auction.CatalogRow) ItemSummaryResponse {
	return ItemSummaryResponse{
		ID:            row.Item.ID,
		Title:         row.Item.Title,
		Description:   row.Item.Description,
		ImageURL:      row.Item.ImageURL,
		StartingPrice: row.Item.StartingPrice,
		CurrentPrice:  row.Item.CurrentPrice,
		Closed:        row.Item.Closed,
		CreatedAt:     row.Item.CreatedAt.Format(time.RFC3339),
		TopBidAmount:  row.TopBidAmount,
		TopBidderName: row.TopBidderName,
	}
}

func bidResponseFrom(bid *auction.Bid) BidResponse {
	return BidResponse{
		ID:         bid.ID,
		ItemID:     bid.ItemID,
		BidderName: bid.BidderName,
		Amount:     bid.Amount,
		CreatedAt:  bid.CreatedAt.Format(time.RFC3339),
	}
}

func (h *CatalogHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.catalogUseCase.ListItems(ctx)
	if err != nil {
		h.logger.Error("Failed to list items", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	responses := make([]ItemSummaryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, itemSummaryFromRow(row))
	}

	response.WriteSuccess(w, responses)
}

func (h *CatalogHandler) HandleGetItem(w http.ResponseWriter, r *http.Request, itemID string) {
	ctx := r.Context()

	detail, err := h.catalogUseCase.GetItemDetail(ctx, itemID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	top := auction.HighestBid(detail.Bids)
	topAmount := auction.TopAmount(detail.Item, top)
	topBidder := ""
	if top != nil {
		topBidder = top.BidderName
	}

	bids := make([]BidResponse, 0, len(detail.Bids))
	for _, bid := range detail.Bids {
		bids = append(bids, bidResponseFrom(bid))
	}

	response.WriteSuccess(w, ItemDetailResponse{
		ItemSummaryResponse: itemSummaryFromRow(&auction.CatalogRow{
			Item:          detail.Item,
			TopBidAmount:  topAmount,
			TopBidderName: topBidder,
		}),
		Bids: bids,
	})
}
