package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"github.com/uptrace/bun"
)

// CreateParams describes a new listing.
type CreateParams struct {
	Title        string
	Category     string
	SellerID     string
	StartPrice   int64
	BuyNowPrice  int64 // 0 disables buy-now
	Duration     time.Duration
	AllowAutoBid bool
}

func (p CreateParams) validate() error {
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.SellerID == "" {
		return errors.New("seller is required")
	}
	if p.StartPrice < 0 {
		return errors.New("start price cannot be negative")
	}
	if p.BuyNowPrice != 0 && p.BuyNowPrice <= p.StartPrice {
		return errors.New("buy-now price must exceed the start price")
	}
	if p.Duration < MinAuctionTime || p.Duration > MaxAuctionTime {
		return fmt.Errorf("duration must be between %s and %s", MinAuctionTime, MaxAuctionTime)
	}
	return nil
}

// CreateAuction registers a draft listing. Nothing is visible to bidders
// until the seller publishes it.
func (e *Engine) CreateAuction(ctx context.Context, params CreateParams) (*models.Auction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	code, err := e.generateAuctionCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auction code: %w", err)
	}

	now := time.Now()
	auction := &models.Auction{
		AuctionCode:  code,
		Title:        params.Title,
		Category:     params.Category,
		SellerID:     params.SellerID,
		StartPrice:   params.StartPrice,
		BuyNowPrice:  params.BuyNowPrice,
		MinIncrement: e.minIncrement,
		AllowAutoBid: params.AllowAutoBid,
		Status:       models.AuctionStatusDraft,
		StartTime:    now,
		EndTime:      now.Add(params.Duration),
	}

	if err := e.auctions.Create(ctx, auction); err != nil {
		return nil, err
	}

	slog.Info("Auction created",
		slog.String("auction_code", auction.AuctionCode),
		slog.String("seller_id", auction.SellerID),
		slog.Int64("start_price", auction.StartPrice))

	return auction, nil
}

// PublishAuction moves a draft to active, stamping the bidding window from
// the moment of publication.
func (e *Engine) PublishAuction(ctx context.Context, auctionID int64, sellerID string) (*models.Auction, error) {
	var published *models.Auction

	err := e.runSerializable(ctx, func(ctx context.Context, tx bun.Tx) error {
		auction, err := e.auctions.GetForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAuctionNotFound
			}
			return err
		}

		if auction.SellerID != sellerID {
			return ErrNotSeller
		}
		if auction.Status != models.AuctionStatusDraft {
			return ErrNotDraft
		}

		duration := auction.EndTime.Sub(auction.StartTime)
		now := time.Now()
		auction.Status = models.AuctionStatusActive
		auction.StartTime = now
		auction.EndTime = now.Add(duration)
		auction.OriginalEndTime = auction.EndTime

		if err := e.auctions.UpdateWithTx(ctx, tx, auction); err != nil {
			return err
		}

		published = auction
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.invalidateListCache()

	slog.Info("Auction published",
		slog.String("auction_code", published.AuctionCode),
		slog.Time("end_time", published.EndTime))

	return published, nil
}

// CancelAuction withdraws a draft or active auction. The current leader's
// hold is released in full; nothing is credited to the seller.
func (e *Engine) CancelAuction(ctx context.Context, auctionID int64, requesterID string) error {
	err := e.runSerializable(ctx, func(ctx context.Context, tx bun.Tx) error {
		auction, err := e.auctions.GetForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAuctionNotFound
			}
			return err
		}

		if auction.SellerID != requesterID {
			return ErrNotSeller
		}
		if auction.Status != models.AuctionStatusDraft && auction.Status != models.AuctionStatusActive {
			return ErrNotCancellable
		}

		// Release the leader's held coins before anything else.
		winning, err := e.bids.GetWinning(ctx, tx, auction.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if winning != nil {
			if err := e.accounts.AdjustBalanceWithTx(ctx, tx, winning.BidderID, winning.Amount); err != nil {
				return err
			}
			if err := e.queueNotification(ctx, tx, winning.BidderID, models.EventAuctionCancelled, auctionEventPayload(auction)); err != nil {
				return err
			}
		}

		if err := e.bids.RefundAllWithTx(ctx, tx, auction.ID); err != nil {
			return err
		}

		auction.Status = models.AuctionStatusCancelled
		return e.auctions.UpdateWithTx(ctx, tx, auction)
	})
	if err != nil {
		return err
	}

	e.invalidateListCache()

	slog.Info("Auction cancelled",
		slog.Int64("auction_id", auctionID),
		slog.String("requester_id", requesterID))

	return nil
}

// auctionEventPayload is the common notification body for auction events.
func auctionEventPayload(a *models.Auction) map[string]any {
	return map[string]any{
		"auction_id":   a.ID,
		"auction_code": a.AuctionCode,
		"title":        a.Title,
		"current_bid":  a.CurrentBid,
	}
}
