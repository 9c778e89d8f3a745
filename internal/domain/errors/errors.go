package errors

import (
	"errors"
)

var (
	ErrItemNotFound = errors.New("item not found")

	ErrAuctionClosed  = errors.New("auction is closed for this item")
	ErrBidTooLow      = errors.New("bid must be greater than current top bid")
	ErrInvalidAmount  = errors.New("bid amount must be a positive number")
	ErrInvalidBidder  = errors.New("bidder identity is required")
	ErrMissingTitle   = errors.New("item title is required")
	ErrInvalidPrice   = errors.New("starting price must be a positive number")

	ErrNoBids = errors.New("no bids for this item")

	ErrBidConflict = errors.New("concurrent bid detected, retry with fresh state")
)

// IsValidation reports whether err is a business-rule rejection: the
// caller's request was understood and refused, retrying the same
// request will not help.
func IsValidation(err error) bool {
	return errors.Is(err, ErrAuctionClosed) ||
		errors.Is(err, ErrBidTooLow) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidBidder) ||
		errors.Is(err, ErrMissingTitle) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrNoBids)
}

// IsConflict reports whether err means the caller lost a concurrent
// race and may safely retry with fresh state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrBidConflict)
}

// IsNotFound reports whether err refers to an absent entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
