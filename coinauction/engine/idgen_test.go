package engine

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestGenerateAuctionCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)
	fx.auctions.EXPECT().CodeExists(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := fx.engine.generateAuctionCode(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != codeLength {
			t.Errorf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, r := range code {
			if !((r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7')) {
				t.Errorf("code %q contains character %q outside the base32 alphabet", code, r)
			}
		}
		if seen[code] {
			t.Errorf("code %q was handed out twice", code)
		}
		seen[code] = true
	}
}

// A code already stored for another auction is discarded and a fresh one
// drawn, even when this process never handed it out.
func TestGenerateAuctionCode_RetriesStoredCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fx := newEngineFixture(ctrl)

	fx.auctions.EXPECT().CodeExists(gomock.Any(), gomock.Any()).Return(true, nil)
	fx.auctions.EXPECT().CodeExists(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	code, err := fx.engine.generateAuctionCode(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != codeLength {
		t.Errorf("code %q has length %d, want %d", code, len(code), codeLength)
	}
}
