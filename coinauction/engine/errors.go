package engine

import (
	"errors"
	"fmt"
)

// Expected, caller-recoverable failures. Validation and resource errors leave
// no state mutated.
var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrAuctionNotActive  = errors.New("auction is not active")
	ErrAuctionNotExpired = errors.New("auction has not reached its end time")
	ErrSelfBid           = errors.New("seller cannot bid on their own auction")
	ErrBuyNowUnavailable = errors.New("auction has no buy-now price")
	ErrNotDraft          = errors.New("auction is not in draft")
	ErrNotCancellable    = errors.New("auction can no longer be cancelled")
	ErrNotSeller         = errors.New("only the seller may perform this action")

	// ErrTransientConflict surfaces after internal retries of a serialization
	// failure are exhausted; the caller may safely retry the whole operation.
	ErrTransientConflict = errors.New("transient conflict, retry the operation")
)

// BidTooLowError reports the minimum amount the next bid must carry.
type BidTooLowError struct {
	Required int64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid too low: minimum acceptable bid is %d", e.Required)
}

// InsufficientBalanceError reports the bidder's balance and the amount the
// operation needed.
type InsufficientBalanceError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: %d required, has %d", e.Required, e.Balance)
}
