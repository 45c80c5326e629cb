package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/uptrace/bun"
)

type BidRepository interface {
	CreateWithTx(ctx context.Context, tx bun.Tx, bid *models.Bid) error
	GetWinning(ctx context.Context, tx bun.Tx, auctionID int64) (*models.Bid, error)
	GetLatestPerBidder(ctx context.Context, tx bun.Tx, auctionID int64) ([]*models.Bid, error)
	UpdateStatusWithTx(ctx context.Context, tx bun.Tx, bidID int64, status models.BidStatus) error
	RefundAllWithTx(ctx context.Context, tx bun.Tx, auctionID int64) error
	GetByAuction(ctx context.Context, auctionID int64) ([]*models.Bid, error)
	GetByBidder(ctx context.Context, bidderID string) ([]*models.Bid, error)
}

type bidRepository struct {
	db *bun.DB
}

func NewBidRepository(db *bun.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) CreateWithTx(ctx context.Context, tx bun.Tx, bid *models.Bid) error {
	bid.CreatedAt = time.Now()
	if bid.PlacedAt.IsZero() {
		bid.PlacedAt = time.Now()
	}

	_, err := tx.NewInsert().Model(bid).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

// GetWinning returns the single winning bid for an auction, or ErrNotFound
// when no bid leads.
func (r *bidRepository) GetWinning(ctx context.Context, tx bun.Tx, auctionID int64) (*models.Bid, error) {
	bid := new(models.Bid)
	err := tx.NewSelect().
		Model(bid).
		Where("auction_id = ? AND status = ?", auctionID, models.BidStatusWinning).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get winning bid: %w", err)
	}
	return bid, nil
}

// GetLatestPerBidder returns each bidder's most recent non-refunded bid on
// the auction. Ceilings live on these rows: earlier rows of the same bidder
// are historical.
func (r *bidRepository) GetLatestPerBidder(ctx context.Context, tx bun.Tx, auctionID int64) ([]*models.Bid, error) {
	var bids []*models.Bid

	err := tx.NewSelect().
		Model(&bids).
		DistinctOn("bidder_id").
		Where("auction_id = ?", auctionID).
		Where("status != ?", models.BidStatusRefunded).
		OrderExpr("bidder_id, placed_at DESC, id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get latest bids per bidder: %w", err)
	}
	return bids, nil
}

func (r *bidRepository) UpdateStatusWithTx(ctx context.Context, tx bun.Tx, bidID int64, status models.BidStatus) error {
	_, err := tx.NewUpdate().
		Model((*models.Bid)(nil)).
		Set("status = ?", status).
		Where("id = ?", bidID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update bid status: %w", err)
	}
	return nil
}

// RefundAllWithTx marks every non-refunded bid on the auction refunded. The
// matching balance credits are the caller's responsibility.
func (r *bidRepository) RefundAllWithTx(ctx context.Context, tx bun.Tx, auctionID int64) error {
	_, err := tx.NewUpdate().
		Model((*models.Bid)(nil)).
		Set("status = ?", models.BidStatusRefunded).
		Where("auction_id = ? AND status != ?", auctionID, models.BidStatusRefunded).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to refund auction bids: %w", err)
	}
	return nil
}

func (r *bidRepository) GetByAuction(ctx context.Context, auctionID int64) ([]*models.Bid, error) {
	var bids []*models.Bid

	err := r.db.NewSelect().
		Model(&bids).
		Where("auction_id = ?", auctionID).
		Order("placed_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get auction bids: %w", err)
	}
	return bids, nil
}

func (r *bidRepository) GetByBidder(ctx context.Context, bidderID string) ([]*models.Bid, error) {
	var bids []*models.Bid

	err := r.db.NewSelect().
		Model(&bids).
		Where("bidder_id = ?", bidderID).
		Order("placed_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get bidder bids: %w", err)
	}
	return bids, nil
}
