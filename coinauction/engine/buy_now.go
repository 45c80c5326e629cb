package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"github.com/uptrace/bun"
)

// BuyNowResult reports the buyer's balance after settlement.
type BuyNowResult struct {
	NewBalance int64
}

// BuyNow settles the auction immediately at its buy-now price: the current
// leader's hold is released in full, the buyer is debited, the seller
// credited, and the auction closes as sold. Any later bid or buy-now attempt
// sees ErrAuctionNotActive.
func (e *Engine) BuyNow(ctx context.Context, auctionID int64, buyerID string) (*BuyNowResult, error) {
	var result *BuyNowResult
	var settled *models.Auction

	err := e.runSerializable(ctx, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()

		auction, err := e.auctions.GetForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAuctionNotFound
			}
			return err
		}

		if auction.Status != models.AuctionStatusActive || !now.Before(auction.EndTime) {
			return ErrAuctionNotActive
		}
		if auction.SellerID == buyerID {
			return ErrSelfBid
		}
		if !auction.HasBuyNow() {
			return ErrBuyNowUnavailable
		}

		buyerAcc, err := e.accounts.GetForUpdate(ctx, tx, buyerID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return &InsufficientBalanceError{Balance: 0, Required: auction.BuyNowPrice}
			}
			return err
		}
		if buyerAcc.Balance < auction.BuyNowPrice {
			return &InsufficientBalanceError{Balance: buyerAcc.Balance, Required: auction.BuyNowPrice}
		}

		// Release the leader's held coins; the buyer may be the leader, in
		// which case the refund lands before the debit below.
		winning, err := e.bids.GetWinning(ctx, tx, auction.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if winning != nil {
			if err := e.accounts.AdjustBalanceWithTx(ctx, tx, winning.BidderID, winning.Amount); err != nil {
				return err
			}
			if winning.BidderID == buyerID {
				buyerAcc.Balance += winning.Amount
			} else {
				if err := e.queueNotification(ctx, tx, winning.BidderID, models.EventOutbid, auctionEventPayload(auction)); err != nil {
					return err
				}
			}
		}
		if err := e.bids.RefundAllWithTx(ctx, tx, auction.ID); err != nil {
			return err
		}

		if err := e.accounts.AdjustBalanceWithTx(ctx, tx, buyerID, -auction.BuyNowPrice); err != nil {
			if errors.Is(err, repositories.ErrBalanceBelowZero) {
				return &InsufficientBalanceError{Balance: buyerAcc.Balance, Required: auction.BuyNowPrice}
			}
			return err
		}
		if err := e.accounts.EnsureWithTx(ctx, tx, auction.SellerID); err != nil {
			return err
		}
		if err := e.accounts.AdjustBalanceWithTx(ctx, tx, auction.SellerID, auction.BuyNowPrice); err != nil {
			return err
		}

		auction.Status = models.AuctionStatusSold
		auction.WinnerID = buyerID
		auction.TopBidderID = buyerID
		auction.CurrentBid = auction.BuyNowPrice
		auction.EndTime = now

		if err := e.auctions.UpdateWithTx(ctx, tx, auction); err != nil {
			return err
		}

		if err := e.queueNotification(ctx, tx, buyerID, models.EventBuyNowConfirmed, auctionEventPayload(auction)); err != nil {
			return err
		}
		if err := e.queueNotification(ctx, tx, auction.SellerID, models.EventAuctionSold, auctionEventPayload(auction)); err != nil {
			return err
		}

		result = &BuyNowResult{NewBalance: buyerAcc.Balance - auction.BuyNowPrice}
		settled = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.invalidateListCache()

	if settled != nil && e.onSettled != nil {
		e.onSettled(ctx, settled)
	}

	slog.Info("Auction bought out",
		slog.Int64("auction_id", auctionID),
		slog.String("buyer_id", buyerID))

	return result, nil
}
