package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

type EventKind string

const (
	EventOutbid           EventKind = "outbid"
	EventAuctionWon       EventKind = "auction_won"
	EventAuctionSold      EventKind = "auction_sold"
	EventAuctionEnded     EventKind = "auction_ended_no_sale"
	EventBuyNowConfirmed  EventKind = "buy_now_confirmed"
	EventAuctionCancelled EventKind = "auction_cancelled"
)

// OutboxMessage is a notification intent written in the same transaction as
// the state change that caused it. A background dispatcher delivers pending
// rows after commit, so slow notification channels never stall bidding.
type OutboxMessage struct {
	bun.BaseModel `bun:"table:outbox_messages,alias:ob"`

	ID         int64        `bun:"id,pk,autoincrement"`
	ActorID    string       `bun:"actor_id,notnull"`
	Kind       EventKind    `bun:"kind,notnull"`
	Payload    []byte       `bun:"payload,type:jsonb"`
	Status     OutboxStatus `bun:"status,notnull,default:'pending'"`
	RetryCount int          `bun:"retry_count,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
