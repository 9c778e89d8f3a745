package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/peterldowns/testy/check"

	domainErrors "github.com/okhomin/silent-auction-service/internal/domain/errors"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domainErrors.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
		{domainErrors.ErrAuctionClosed, http.StatusBadRequest, "auction_closed"},
		{domainErrors.ErrBidTooLow, http.StatusBadRequest, "bid_too_low"},
		{domainErrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{domainErrors.ErrInvalidBidder, http.StatusUnauthorized, "invalid_bidder"},
		{domainErrors.ErrMissingTitle, http.StatusBadRequest, "missing_title"},
		{domainErrors.ErrInvalidPrice, http.StatusBadRequest, "invalid_price"},
		{domainErrors.ErrNoBids, http.StatusBadRequest, "no_bids"},
		{domainErrors.ErrBidConflict, http.StatusConflict, "bid_conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)
			check.Equal(t, tt.wantStatus, status)
			check.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestMapDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("close item: %w", domainErrors.ErrItemNotFound)

	status, resp := MapDomainError(wrapped)
	check.Equal(t, http.StatusNotFound, status)
	check.Equal(t, "item_not_found", resp.Code)
}

func TestMapDomainError_Unknown(t *testing.T) {
	status, resp := MapDomainError(errors.New("connection reset"))
	check.Equal(t, http.StatusInternalServerError, status)
	check.Equal(t, "internal_error", resp.Code)
}
