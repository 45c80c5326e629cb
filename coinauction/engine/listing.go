package engine

import (
	"context"
	"errors"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"github.com/sahilm/fuzzy"
)

const activeListKey = "active"

// GetAuction returns an auction by internal id.
func (e *Engine) GetAuction(ctx context.Context, id int64) (*models.Auction, error) {
	auction, err := e.auctions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

// GetByCode returns an auction by its public code.
func (e *Engine) GetByCode(ctx context.Context, code string) (*models.Auction, error) {
	auction, err := e.auctions.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

// ListActive returns currently biddable auctions. The result is cached until
// the next state change; the listing page is read far more often than the
// ledger moves.
func (e *Engine) ListActive(ctx context.Context) ([]*models.Auction, error) {
	if cached, ok := e.listCache.Get(activeListKey); ok {
		if auctions, ok := cached.([]*models.Auction); ok {
			return auctions, nil
		}
	}

	auctions, err := e.auctions.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	e.listCache.Add(activeListKey, auctions)
	return auctions, nil
}

// SearchActive fuzzy-matches active auctions by title, best match first.
func (e *Engine) SearchActive(ctx context.Context, query string) ([]*models.Auction, error) {
	auctions, err := e.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return auctions, nil
	}

	titles := make([]string, len(auctions))
	for i, a := range auctions {
		titles[i] = a.Title
	}

	matches := fuzzy.Find(query, titles)
	results := make([]*models.Auction, 0, len(matches))
	for _, m := range matches {
		results = append(results, auctions[m.Index])
	}
	return results, nil
}

func (e *Engine) invalidateListCache() {
	e.listCache.Remove(activeListKey)
}
