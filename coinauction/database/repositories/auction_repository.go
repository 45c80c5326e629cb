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

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type AuctionRepository interface {
	Create(ctx context.Context, auction *models.Auction) error
	GetByID(ctx context.Context, id int64) (*models.Auction, error)
	GetByCode(ctx context.Context, code string) (*models.Auction, error)
	GetForUpdate(ctx context.Context, tx bun.Tx, id int64) (*models.Auction, error)
	GetActive(ctx context.Context) ([]*models.Auction, error)
	GetExpired(ctx context.Context) ([]*models.Auction, error)
	UpdateWithTx(ctx context.Context, tx bun.Tx, auction *models.Auction) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

type auctionRepository struct {
	db *bun.DB
}

func NewAuctionRepository(db *bun.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	auction.CreatedAt = time.Now()
	auction.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().Model(auction).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}
	return nil
}

func (r *auctionRepository) GetByID(ctx context.Context, id int64) (*models.Auction, error) {
	auction := new(models.Auction)
	err := r.db.NewSelect().
		Model(auction).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	return auction, nil
}

func (r *auctionRepository) GetByCode(ctx context.Context, code string) (*models.Auction, error) {
	auction := new(models.Auction)
	err := r.db.NewSelect().
		Model(auction).
		Where("auction_code = ?", code).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get auction by code: %w", err)
	}
	return auction, nil
}

// GetForUpdate locks the auction row for the duration of the transaction.
func (r *auctionRepository) GetForUpdate(ctx context.Context, tx bun.Tx, id int64) (*models.Auction, error) {
	auction := new(models.Auction)
	err := tx.NewSelect().
		Model(auction).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock auction: %w", err)
	}
	return auction, nil
}

func (r *auctionRepository) GetActive(ctx context.Context) ([]*models.Auction, error) {
	var auctions []*models.Auction

	err := r.db.NewSelect().
		Model(&auctions).
		Where("status = ?", models.AuctionStatusActive).
		Where("end_time > ?", time.Now()).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get active auctions: %w", err)
	}

	return auctions, nil
}

// GetExpired returns active auctions whose end time has passed; these are due
// for settlement.
func (r *auctionRepository) GetExpired(ctx context.Context) ([]*models.Auction, error) {
	var auctions []*models.Auction

	err := r.db.NewSelect().
		Model(&auctions).
		Where("status = ?", models.AuctionStatusActive).
		Where("end_time <= ?", time.Now()).
		Order("end_time ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get expired auctions: %w", err)
	}

	return auctions, nil
}

func (r *auctionRepository) UpdateWithTx(ctx context.Context, tx bun.Tx, auction *models.Auction) error {
	auction.UpdatedAt = time.Now()

	_, err := tx.NewUpdate().
		Model(auction).
		WherePK().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update auction: %w", err)
	}
	return nil
}

func (r *auctionRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.Auction)(nil)).
		Where("auction_code = ?", code).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check auction code: %w", err)
	}
	return exists, nil
}
