package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Account holds an actor's coin balance. A bidder's hold for an auction is
// expressed as an immediate debit here; losing or cancelled bids are credited
// back in the same transaction that demotes them.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID      string `bun:"id,pk"`
	Balance int64  `bun:"balance,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
