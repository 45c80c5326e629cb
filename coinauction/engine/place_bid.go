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

// BidResult reports the outcome of an accepted bid. FinalAmount is the
// leading amount after proxy resolution, which may belong to another bidder
// when an existing auto-bid defended the lead.
type BidResult struct {
	FinalAmount     int64
	AuctionExtended bool
	NewEndTime      time.Time
	NewBalance      int64
}

// PlaceBid validates and applies a bid. maxAutoBid of 0 means a plain manual
// bid; a positive value below amount, or a ceiling on an auction that
// disallows auto-bidding, is ignored rather than rejected.
//
// The whole effect (bid rows, proxy resolution, hold accounting, anti-snipe
// extension, notification intents) commits as one serializable transaction.
func (e *Engine) PlaceBid(ctx context.Context, auctionID int64, bidderID string, amount, maxAutoBid int64) (*BidResult, error) {
	if amount <= 0 {
		return nil, &BidTooLowError{Required: 1}
	}

	var result *BidResult

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
		if auction.SellerID == bidderID {
			return ErrSelfBid
		}
		if minBid := auction.MinimumAcceptableBid(); amount < minBid {
			return &BidTooLowError{Required: minBid}
		}

		bidderAcc, err := e.accounts.GetForUpdate(ctx, tx, bidderID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return &InsufficientBalanceError{Balance: 0, Required: amount}
			}
			return err
		}
		if bidderAcc.Balance < amount {
			return &InsufficientBalanceError{Balance: bidderAcc.Balance, Required: amount}
		}

		ceiling := amount
		if maxAutoBid >= amount && auction.AllowAutoBid {
			ceiling = maxAutoBid
		}

		standings, err := e.bids.GetLatestPerBidder(ctx, tx, auction.ID)
		if err != nil {
			return err
		}

		// Held coins per bidder before this placement. Only the current
		// leader holds anything: losers were credited back when demoted.
		prevHolds := make(map[string]int64)

		var leaderBid *models.Bid
		var leaderC *contender
		var rivals []contender

		for _, standing := range standings {
			if standing.Status == models.BidStatusWinning {
				leaderBid = standing
				prevHolds[standing.BidderID] = standing.Amount
			}
		}

		for _, standing := range standings {
			if standing.BidderID == bidderID {
				// Superseded by the incoming bid below.
				continue
			}

			isLeader := leaderBid != nil && standing.ID == leaderBid.ID

			usable := standing.Amount
			if auction.AllowAutoBid && standing.HasCeiling() {
				acc, err := e.accounts.GetForUpdate(ctx, tx, standing.BidderID)
				if err != nil {
					return fmt.Errorf("failed to lock auto-bidder account: %w", err)
				}
				usable = usableCeiling(standing.MaxAutoBid, prevHolds[standing.BidderID], acc.Balance)
			}

			c := contender{
				bidderID: standing.BidderID,
				entry:    standing.Amount,
				ceiling:  maxInt64(usable, standing.Amount),
				placedAt: standing.PlacedAt,
			}

			if isLeader {
				leaderC = &c
			} else if auction.AllowAutoBid && standing.HasCeiling() && usable > auction.CurrentBid {
				rivals = append(rivals, c)
			}
		}

		incoming := contender{
			bidderID: bidderID,
			entry:    amount,
			ceiling:  usableCeiling(ceiling, prevHolds[bidderID], bidderAcc.Balance),
			placedAt: now,
		}

		outcome := resolveContenders(leaderC, rivals, incoming, auction.MinIncrement, auction.StartPrice)

		// Settle holds: per bidder, one signed balance adjustment covers the
		// release of the old hold and the new debit.
		newHolds := map[string]int64{outcome.winner.bidderID: outcome.finalAmount}
		for actor := range prevHolds {
			if _, ok := newHolds[actor]; !ok {
				newHolds[actor] = 0
			}
		}
		for actor, hold := range newHolds {
			delta := hold - prevHolds[actor]
			if err := e.accounts.AdjustBalanceWithTx(ctx, tx, actor, -delta); err != nil {
				if errors.Is(err, repositories.ErrBalanceBelowZero) {
					return &InsufficientBalanceError{Balance: bidderAcc.Balance, Required: hold}
				}
				return err
			}
		}

		// Bid rows: the previous leader's row is demoted, the incoming bid is
		// recorded, and a winner other than the incoming bidder gets a fresh
		// auto-raise row. Historical rows are never rewritten.
		if leaderBid != nil {
			if err := e.bids.UpdateStatusWithTx(ctx, tx, leaderBid.ID, models.BidStatusOutbid); err != nil {
				return err
			}
		}

		incomingWon := outcome.winner.bidderID == bidderID

		incomingRow := &models.Bid{
			AuctionID: auction.ID,
			BidderID:  bidderID,
			Amount:    amount,
			Status:    models.BidStatusOutbid,
			PlacedAt:  now,
		}
		if ceiling > amount {
			incomingRow.MaxAutoBid = ceiling
		}
		if incomingWon {
			incomingRow.Amount = outcome.finalAmount
			incomingRow.Status = models.BidStatusWinning
		}
		if err := e.bids.CreateWithTx(ctx, tx, incomingRow); err != nil {
			return err
		}

		if !incomingWon {
			// The raise carries the defender's original placement time and
			// stated ceiling, so the first-mover tie-break and the full
			// auto-bid budget survive every defended round.
			var winnerRow *models.Bid
			for _, standing := range standings {
				if standing.BidderID == outcome.winner.bidderID {
					winnerRow = standing
					break
				}
			}
			raise := &models.Bid{
				AuctionID:  auction.ID,
				BidderID:   outcome.winner.bidderID,
				Amount:     outcome.finalAmount,
				MaxAutoBid: winnerRow.MaxAutoBid,
				Status:     models.BidStatusWinning,
				PlacedAt:   winnerRow.PlacedAt,
			}
			if err := e.bids.CreateWithTx(ctx, tx, raise); err != nil {
				return err
			}
		}

		auction.CurrentBid = outcome.finalAmount
		auction.TopBidderID = outcome.winner.bidderID
		auction.BidCount++
		auction.LastBidTime = now

		newEnd, extended := e.policy.Apply(now, auction.EndTime, auction.OriginalEndTime, auction.ExtensionCount)
		if extended {
			auction.EndTime = newEnd
			auction.ExtensionCount++
		}

		if err := e.auctions.UpdateWithTx(ctx, tx, auction); err != nil {
			return err
		}

		// The displaced leader learns about it after commit.
		if leaderBid != nil && leaderBid.BidderID != outcome.winner.bidderID && leaderBid.BidderID != bidderID {
			if err := e.queueNotification(ctx, tx, leaderBid.BidderID, models.EventOutbid, auctionEventPayload(auction)); err != nil {
				return err
			}
		}

		result = &BidResult{
			FinalAmount:     outcome.finalAmount,
			AuctionExtended: extended,
			NewEndTime:      auction.EndTime,
			NewBalance:      bidderAcc.Balance - (newHolds[bidderID] - prevHolds[bidderID]),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.invalidateListCache()

	slog.Info("Bid placed",
		slog.Int64("auction_id", auctionID),
		slog.String("bidder_id", bidderID),
		slog.Int64("amount", amount),
		slog.Int64("final_amount", result.FinalAmount),
		slog.Bool("extended", result.AuctionExtended))

	return result, nil
}
