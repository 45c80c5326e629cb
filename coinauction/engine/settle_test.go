package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"github.com/hypemarket/coinauction/coinauction/database/repositories"
	"go.uber.org/mock/gomock"
)

func TestSettleExpired_CreditsSellerOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	auction := &models.Auction{
		ID:          5,
		AuctionCode: "Q7TD",
		SellerID:    "seller",
		Status:      models.AuctionStatusActive,
		StartPrice:  100,
		CurrentBid:  160,
		EndTime:     time.Now().Add(-time.Minute),
	}
	winning := &models.Bid{ID: 11, AuctionID: 5, BidderID: "bob", Amount: 160, Status: models.BidStatusWinning}

	fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(5)).Return(auction, nil)
	fx.bids.EXPECT().GetWinning(gomock.Any(), gomock.Any(), int64(5)).Return(winning, nil)
	fx.accounts.EXPECT().EnsureWithTx(gomock.Any(), gomock.Any(), "seller").Return(nil)
	fx.accounts.EXPECT().AdjustBalanceWithTx(gomock.Any(), gomock.Any(), "seller", int64(160)).Return(nil)
	fx.auctions.EXPECT().UpdateWithTx(gomock.Any(), gomock.Any(), auction).Return(nil)

	var kinds []models.EventKind
	fx.outbox.EXPECT().CreateWithTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, msg *models.OutboxMessage) error {
			kinds = append(kinds, msg.Kind)
			return nil
		}).Times(2)

	var hooked *models.Auction
	fx.engine.SetSettlementHook(func(_ context.Context, a *models.Auction) { hooked = a })

	outcome, err := fx.engine.SettleExpired(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != SettlementSold {
		t.Errorf("outcome = %s, want %s", outcome, SettlementSold)
	}
	if auction.Status != models.AuctionStatusSold {
		t.Errorf("status = %s, want %s", auction.Status, models.AuctionStatusSold)
	}
	if auction.WinnerID != "bob" {
		t.Errorf("winner = %s, want bob", auction.WinnerID)
	}
	if len(kinds) != 2 || kinds[0] != models.EventAuctionWon || kinds[1] != models.EventAuctionSold {
		t.Errorf("notification kinds = %v", kinds)
	}
	if hooked != auction {
		t.Error("settlement hook was not invoked with the settled auction")
	}
}

// Re-running settlement against a closed auction is a no-op: the status gate
// stops before any credit or notification, so the seller is never paid twice.
func TestSettleExpired_RerunIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	settled := &models.Auction{
		ID:          5,
		AuctionCode: "Q7TD",
		SellerID:    "seller",
		Status:      models.AuctionStatusSold,
		WinnerID:    "bob",
		CurrentBid:  160,
		EndTime:     time.Now().Add(-time.Minute),
	}

	// Only the locking read is expected; any write would fail the controller.
	fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(5)).Return(settled, nil)

	outcome, err := fx.engine.SettleExpired(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != SettlementAlreadySettled {
		t.Errorf("outcome = %s, want %s", outcome, SettlementAlreadySettled)
	}
}

func TestSettleExpired_NoBidsEnds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	auction := &models.Auction{
		ID:          6,
		AuctionCode: "ZK2M",
		SellerID:    "seller",
		Status:      models.AuctionStatusActive,
		StartPrice:  100,
		EndTime:     time.Now().Add(-time.Minute),
	}

	fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(6)).Return(auction, nil)
	fx.bids.EXPECT().GetWinning(gomock.Any(), gomock.Any(), int64(6)).Return(nil, repositories.ErrNotFound)
	fx.auctions.EXPECT().UpdateWithTx(gomock.Any(), gomock.Any(), auction).Return(nil)
	fx.outbox.EXPECT().CreateWithTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	outcome, err := fx.engine.SettleExpired(context.Background(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != SettlementEnded {
		t.Errorf("outcome = %s, want %s", outcome, SettlementEnded)
	}
	if auction.Status != models.AuctionStatusEnded {
		t.Errorf("status = %s, want %s", auction.Status, models.AuctionStatusEnded)
	}
}

func TestSettleExpired_NotYetDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	auction := &models.Auction{
		ID:      7,
		Status:  models.AuctionStatusActive,
		EndTime: time.Now().Add(time.Hour),
	}

	fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(7)).Return(auction, nil)

	_, err := fx.engine.SettleExpired(context.Background(), 7)
	if !errors.Is(err, ErrAuctionNotExpired) {
		t.Errorf("err = %v, want ErrAuctionNotExpired", err)
	}
}
