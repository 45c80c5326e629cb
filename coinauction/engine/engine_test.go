package engine

import (
	"context"

	"github.com/hypemarket/coinauction/coinauction/engine/mock"
	"github.com/uptrace/bun"
	"go.uber.org/mock/gomock"
)

// passthroughTxRunner hands the callback a zero transaction so the repository
// mocks observe every call without a database behind them.
type passthroughTxRunner struct{}

func (passthroughTxRunner) RunSerializable(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

type engineFixture struct {
	engine   *Engine
	auctions *mock.MockAuctionRepository
	bids     *mock.MockBidRepository
	accounts *mock.MockAccountRepository
	outbox   *mock.MockOutboxRepository
}

func newEngineFixture(ctrl *gomock.Controller) *engineFixture {
	auctions := mock.NewMockAuctionRepository(ctrl)
	bids := mock.NewMockBidRepository(ctrl)
	accounts := mock.NewMockAccountRepository(ctrl)
	outbox := mock.NewMockOutboxRepository(ctrl)

	return &engineFixture{
		engine:   newEngine(auctions, bids, accounts, outbox, passthroughTxRunner{}, Options{}),
		auctions: auctions,
		bids:     bids,
		accounts: accounts,
		outbox:   outbox,
	}
}
