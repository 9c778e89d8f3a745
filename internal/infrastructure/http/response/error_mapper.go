package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Code       string
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrItemNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Code:       "item_not_found",
		Message:    "Item not found",
	},
	domainErrors.ErrAuctionClosed: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Code:       "auction_closed",
		Message:    "Auction is closed for this item",
	},
	domainErrors.ErrBidTooLow: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Code:       "bid_too_low",
		Message:    "Bid must exceed the current highest bid",
	},
	domainErrors.ErrInvalidAmount: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Code:       "invalid_amount",
		Message:    "Bid amount must be a positive number",
	},
	domainErrors.ErrInvalidBidder: {
		HTTPStatus: http.StatusUnauthorized,
		Status:     StatusUnauthorized,
		Code:       "invalid_bidder",
		Message:    "Bidder identity is missing or invalid",
	},
	domainErrors.ErrMissingTitle: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Code:       "missing_title",
		Message:    "Item title is required",
	},
	domainErrors.ErrInvalidPrice: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Code:       "invalid_price",
		Message:    "Starting price must be a positive number",
	},
	domainErrors.ErrNoBids: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Code:       "no_bids",
		Message:    "No bids were placed on this item",
	},
	domainErrors.ErrBidConflict: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Code:       "bid_conflict",
		Message:    "Bid lost a concurrent update, retry",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Code, mapping.Message)
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "internal_error", "Internal server error")
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
