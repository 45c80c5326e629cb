package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database"
	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// SettlementOutcome reports how an expiry settlement concluded.
type SettlementOutcome string

const (
	SettlementSold           SettlementOutcome = "sold"
	SettlementEnded          SettlementOutcome = "ended"
	SettlementAlreadySettled SettlementOutcome = "already_settled"
)

// sweepConcurrency bounds how many auctions settle in parallel per sweep.
const sweepConcurrency = 4

// SettleExpired finalizes one auction whose end time has passed. The winning
// bidder's coins were held at placement, so settlement only credits the
// seller. Re-running against a settled auction is a no-op: every write is
// gated on the status leaving active exactly once.
func (e *Engine) SettleExpired(ctx context.Context, auctionID int64) (SettlementOutcome, error) {
	var outcome SettlementOutcome
	var settled *models.Auction

	err := e.runSerializable(ctx, func(ctx context.Context, tx bun.Tx) error {
		auction, err := e.auctions.GetForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAuctionNotFound
			}
			return err
		}

		if auction.Status != models.AuctionStatusActive {
			outcome = SettlementAlreadySettled
			return nil
		}
		if time.Now().Before(auction.EndTime) {
			return ErrAuctionNotExpired
		}

		winning, err := e.bids.GetWinning(ctx, tx, auction.ID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		if winning == nil {
			auction.Status = models.AuctionStatusEnded
			if err := e.auctions.UpdateWithTx(ctx, tx, auction); err != nil {
				return err
			}
			if err := e.queueNotification(ctx, tx, auction.SellerID, models.EventAuctionEnded, auctionEventPayload(auction)); err != nil {
				return err
			}
			outcome = SettlementEnded
			settled = auction
			return nil
		}

		if err := e.accounts.EnsureWithTx(ctx, tx, auction.SellerID); err != nil {
			return err
		}
		if err := e.accounts.AdjustBalanceWithTx(ctx, tx, auction.SellerID, winning.Amount); err != nil {
			return err
		}

		auction.Status = models.AuctionStatusSold
		auction.WinnerID = winning.BidderID
		auction.CurrentBid = winning.Amount
		if err := e.auctions.UpdateWithTx(ctx, tx, auction); err != nil {
			return err
		}

		if err := e.queueNotification(ctx, tx, winning.BidderID, models.EventAuctionWon, auctionEventPayload(auction)); err != nil {
			return err
		}
		if err := e.queueNotification(ctx, tx, auction.SellerID, models.EventAuctionSold, auctionEventPayload(auction)); err != nil {
			return err
		}

		outcome = SettlementSold
		settled = auction
		return nil
	})
	if err != nil {
		return "", err
	}

	e.invalidateListCache()

	if settled != nil && e.onSettled != nil {
		e.onSettled(ctx, settled)
	}

	slog.Info("Auction settled",
		slog.Int64("auction_id", auctionID),
		slog.String("outcome", string(outcome)))

	return outcome, nil
}

// SweepExpired settles every auction past its end time and reports how many
// were finalized. Each auction gets its own transaction, so one failure never
// aborts the rest of the sweep.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	expired, err := e.auctions.GetExpired(ctx)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	var settledCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, auction := range expired {
		g.Go(func() error {
			settleCtx, cancel := context.WithTimeout(ctx, database.DefaultTxTimeout)
			defer cancel()

			outcome, err := e.SettleExpired(settleCtx, auction.ID)
			if err != nil {
				slog.Error("Failed to settle expired auction",
					slog.Int64("auction_id", auction.ID),
					slog.String("auction_code", auction.AuctionCode),
					slog.String("error", err.Error()))
				return nil
			}
			if outcome != SettlementAlreadySettled {
				settledCount.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	return int(settledCount.Load()), err
}
