package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BidStatus string

const (
	BidStatusWinning  BidStatus = "winning"
	BidStatusOutbid   BidStatus = "outbid"
	BidStatusRefunded BidStatus = "refunded"
)

// Bid rows are append-only: a raise produces a new row, superseded rows only
// ever change status. Proxy resolution runs inside the placement transaction,
// so every row is born already winning or outbid; there is no intermediate
// pending state to persist.
type Bid struct {
	bun.BaseModel `bun:"table:auction_bids,alias:ab"`

	ID         int64     `bun:"id,pk,autoincrement"`
	AuctionID  int64     `bun:"auction_id,notnull"`
	BidderID   string    `bun:"bidder_id,notnull"`
	Amount     int64     `bun:"amount,notnull"`
	MaxAutoBid int64     `bun:"max_auto_bid"`
	Status     BidStatus `bun:"status,notnull"`
	PlacedAt   time.Time `bun:"placed_at,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull"`
}

// HasCeiling reports whether this bid carries a live auto-bid ceiling.
func (b *Bid) HasCeiling() bool {
	return b.MaxAutoBid > b.Amount
}
