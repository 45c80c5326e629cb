package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hypemarket/coinauction/coinauction/database/models"
	"go.uber.org/mock/gomock"
)

// A bid that takes the lead debits the new leader and releases the previous
// leader's hold inside the same transaction, one signed adjustment per actor.
func TestPlaceBid_HoldDeltas(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	placedA := time.Now().Add(-10 * time.Minute)
	auction := &models.Auction{
		ID:           7,
		AuctionCode:  "N4XQ",
		SellerID:     "seller",
		Status:       models.AuctionStatusActive,
		StartPrice:   100,
		CurrentBid:   100,
		MinIncrement: 10,
		AllowAutoBid: true,
		TopBidderID:  "alice",
		BidCount:     1,
		EndTime:      time.Now().Add(time.Hour),
	}
	aliceRow := &models.Bid{
		ID: 21, AuctionID: 7, BidderID: "alice", Amount: 100,
		Status: models.BidStatusWinning, PlacedAt: placedA,
	}

	fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(7)).Return(auction, nil)
	fx.accounts.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "bob").
		Return(&models.Account{ID: "bob", Balance: 1000}, nil)
	fx.bids.EXPECT().GetLatestPerBidder(gomock.Any(), gomock.Any(), int64(7)).
		Return([]*models.Bid{aliceRow}, nil)

	// Bob's hold appears, Alice's is released in full.
	fx.accounts.EXPECT().AdjustBalanceWithTx(gomock.Any(), gomock.Any(), "bob", int64(-120)).Return(nil)
	fx.accounts.EXPECT().AdjustBalanceWithTx(gomock.Any(), gomock.Any(), "alice", int64(100)).Return(nil)

	fx.bids.EXPECT().UpdateStatusWithTx(gomock.Any(), gomock.Any(), int64(21), models.BidStatusOutbid).Return(nil)

	var created []*models.Bid
	fx.bids.EXPECT().CreateWithTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, bid *models.Bid) error {
			created = append(created, bid)
			return nil
		})

	fx.auctions.EXPECT().UpdateWithTx(gomock.Any(), gomock.Any(), auction).Return(nil)

	var outbid *models.OutboxMessage
	fx.outbox.EXPECT().CreateWithTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, msg *models.OutboxMessage) error {
			outbid = msg
			return nil
		})

	result, err := fx.engine.PlaceBid(context.Background(), 7, "bob", 120, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FinalAmount != 120 {
		t.Errorf("FinalAmount = %d, want 120", result.FinalAmount)
	}
	if result.NewBalance != 880 {
		t.Errorf("NewBalance = %d, want 880", result.NewBalance)
	}
	if result.AuctionExtended {
		t.Error("bid an hour before the end must not extend")
	}

	if len(created) != 1 {
		t.Fatalf("created %d bid rows, want 1", len(created))
	}
	row := created[0]
	if row.BidderID != "bob" || row.Amount != 120 || row.Status != models.BidStatusWinning || row.MaxAutoBid != 200 {
		t.Errorf("incoming row = %+v", row)
	}

	if auction.CurrentBid != 120 || auction.TopBidderID != "bob" || auction.BidCount != 2 {
		t.Errorf("auction after bid: current=%d top=%s count=%d", auction.CurrentBid, auction.TopBidderID, auction.BidCount)
	}

	if outbid == nil || outbid.ActorID != "alice" || outbid.Kind != models.EventOutbid {
		t.Errorf("outbid notification = %+v", outbid)
	}
}

// A defended raise keeps the auto-bidder's original placement time and stated
// ceiling on the new winning row, so the first-mover tie-break survives.
func TestPlaceBid_DefendedRaiseKeepsOriginalPlacement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	placedB := time.Now().Add(-5 * time.Minute)
	auction := &models.Auction{
		ID:           7,
		AuctionCode:  "N4XQ",
		SellerID:     "seller",
		Status:       models.AuctionStatusActive,
		StartPrice:   100,
		CurrentBid:   120,
		MinIncrement: 10,
		AllowAutoBid: true,
		TopBidderID:  "bob",
		BidCount:     2,
		EndTime:      time.Now().Add(time.Hour),
	}
	bobRow := &models.Bid{
		ID: 22, AuctionID: 7, BidderID: "bob", Amount: 120, MaxAutoBid: 200,
		Status: models.BidStatusWinning, PlacedAt: placedB,
	}

	fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(7)).Return(auction, nil)
	fx.accounts.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "carol").
		Return(&models.Account{ID: "carol", Balance: 1000}, nil)
	fx.bids.EXPECT().GetLatestPerBidder(gomock.Any(), gomock.Any(), int64(7)).
		Return([]*models.Bid{bobRow}, nil)
	fx.accounts.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), "bob").
		Return(&models.Account{ID: "bob", Balance: 880}, nil)

	// Bob defends at 160; only the 40-coin top-up leaves his balance, carol
	// never held anything.
	fx.accounts.EXPECT().AdjustBalanceWithTx(gomock.Any(), gomock.Any(), "bob", int64(-40)).Return(nil)

	fx.bids.EXPECT().UpdateStatusWithTx(gomock.Any(), gomock.Any(), int64(22), models.BidStatusOutbid).Return(nil)

	var created []*models.Bid
	fx.bids.EXPECT().CreateWithTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, bid *models.Bid) error {
			created = append(created, bid)
			return nil
		}).Times(2)

	fx.auctions.EXPECT().UpdateWithTx(gomock.Any(), gomock.Any(), auction).Return(nil)

	result, err := fx.engine.PlaceBid(context.Background(), 7, "carol", 150, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FinalAmount != 160 {
		t.Errorf("FinalAmount = %d, want 160", result.FinalAmount)
	}
	if result.NewBalance != 1000 {
		t.Errorf("NewBalance = %d, want 1000", result.NewBalance)
	}

	var carolRow, raiseRow *models.Bid
	for _, row := range created {
		switch row.BidderID {
		case "carol":
			carolRow = row
		case "bob":
			raiseRow = row
		}
	}
	if carolRow == nil || carolRow.Amount != 150 || carolRow.Status != models.BidStatusOutbid {
		t.Errorf("carol row = %+v", carolRow)
	}
	if raiseRow == nil {
		t.Fatal("no auto-raise row for the defending bidder")
	}
	if raiseRow.Amount != 160 || raiseRow.Status != models.BidStatusWinning {
		t.Errorf("raise row = %+v", raiseRow)
	}
	if !raiseRow.PlacedAt.Equal(placedB) {
		t.Errorf("raise PlacedAt = %v, want the original %v", raiseRow.PlacedAt, placedB)
	}
	if raiseRow.MaxAutoBid != 200 {
		t.Errorf("raise MaxAutoBid = %d, want the stated 200", raiseRow.MaxAutoBid)
	}

	if auction.CurrentBid != 160 || auction.TopBidderID != "bob" || auction.BidCount != 3 {
		t.Errorf("auction after bid: current=%d top=%s count=%d", auction.CurrentBid, auction.TopBidderID, auction.BidCount)
	}
}

// Validation failures stop before any account is locked or any row written.
func TestPlaceBid_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		bidder  string
		amount  int64
		check   func(*testing.T, error)
	}{
		{
			name:   "seller bids on own auction",
			bidder: "seller",
			amount: 200,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrSelfBid) {
					t.Errorf("err = %v, want ErrSelfBid", err)
				}
			},
		},
		{
			name:   "below minimum acceptable bid",
			bidder: "bob",
			amount: 105,
			check: func(t *testing.T, err error) {
				var tooLow *BidTooLowError
				if !errors.As(err, &tooLow) {
					t.Fatalf("err = %v, want BidTooLowError", err)
				}
				if tooLow.Required != 110 {
					t.Errorf("Required = %d, want 110", tooLow.Required)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			fx := newEngineFixture(ctrl)

			auction := &models.Auction{
				ID:           9,
				SellerID:     "seller",
				Status:       models.AuctionStatusActive,
				StartPrice:   100,
				CurrentBid:   100,
				MinIncrement: 10,
				BidCount:     1,
				EndTime:      time.Now().Add(time.Hour),
			}
			fx.auctions.EXPECT().GetForUpdate(gomock.Any(), gomock.Any(), int64(9)).Return(auction, nil)

			_, err := fx.engine.PlaceBid(context.Background(), 9, tt.bidder, tt.amount, 0)
			tt.check(t, err)
		})
	}
}
