package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AuctionStatus string

const (
	AuctionStatusDraft     AuctionStatus = "draft"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusEnded     AuctionStatus = "ended"
	AuctionStatusSold      AuctionStatus = "sold"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

type Auction struct {
	bun.BaseModel `bun:"table:auctions,alias:a"`

	ID           int64         `bun:"id,pk,autoincrement"`
	AuctionCode  string        `bun:"auction_code,notnull,unique"`
	Title        string        `bun:"title,notnull"`
	Category     string        `bun:"category"`
	SellerID     string        `bun:"seller_id,notnull"`
	StartPrice   int64         `bun:"start_price,notnull"`
	CurrentBid   int64         `bun:"current_bid"`
	BuyNowPrice  int64         `bun:"buy_now_price"`
	MinIncrement int64         `bun:"min_increment,notnull"`
	AllowAutoBid bool          `bun:"allow_auto_bid,notnull"`
	TopBidderID  string        `bun:"top_bidder_id"`
	WinnerID     string        `bun:"winner_id"`
	Status       AuctionStatus `bun:"status,notnull"`
	StartTime    time.Time     `bun:"start_time"`
	EndTime      time.Time     `bun:"end_time"`

	// Anti-sniping bookkeeping: OriginalEndTime never changes after publish,
	// ExtensionCount counts how often EndTime moved forward.
	OriginalEndTime time.Time `bun:"original_end_time"`
	ExtensionCount  int       `bun:"extension_count"`

	LastBidTime time.Time `bun:"last_bid_time"`
	BidCount    int       `bun:"bid_count"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// HasBids reports whether any bid has been accepted. While true, CurrentBid
// holds the leading amount; before that CurrentBid is meaningless.
func (a *Auction) HasBids() bool {
	return a.BidCount > 0
}

// MinimumAcceptableBid is the lowest amount the next bid may carry.
func (a *Auction) MinimumAcceptableBid() int64 {
	if a.HasBids() {
		return a.CurrentBid + a.MinIncrement
	}
	return a.StartPrice
}

// HasBuyNow reports whether immediate purchase is offered.
func (a *Auction) HasBuyNow() bool {
	return a.BuyNowPrice > 0
}
