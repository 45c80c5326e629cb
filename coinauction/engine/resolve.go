package engine

import (
	"sort"
	"time"
)

// contender is one bidder's position during proxy resolution. A manual bid is
// a contender whose ceiling equals its entry amount. The ceiling here is the
// usable ceiling: already clamped to what the bidder's held coins plus free
// balance can cover.
type contender struct {
	bidderID string
	entry    int64 // amount the contender enters the round at
	ceiling  int64 // highest amount the system may bid on their behalf
	placedAt time.Time
}

// beats reports whether c displaces the current leader l. Higher usable
// ceiling wins; on equal ceilings the earlier-placed bid keeps the lead.
func (c contender) beats(l contender) bool {
	if c.ceiling != l.ceiling {
		return c.ceiling > l.ceiling
	}
	return c.placedAt.Before(l.placedAt)
}

// resolveOutcome is the result of one resolution pass.
type resolveOutcome struct {
	winner      contender
	finalAmount int64
	rounds      int
}

// resolveContenders determines the leading bidder and effective price after a
// new bid arrives. leader is the current winning position, or nil for the
// first bid on the auction; rivals are other bidders whose latest bid still
// carries a live ceiling; incoming is the arriving bid.
//
// Resolution runs as a bounded loop: each round the strongest remaining
// challenger either takes the lead or is exhausted, so the loop ends after at
// most one round per contender. The price only ever moves up.
func resolveContenders(leader *contender, rivals []contender, incoming contender, minIncrement, floor int64) resolveOutcome {
	pool := make([]contender, 0, len(rivals)+1)
	pool = append(pool, rivals...)
	pool = append(pool, incoming)

	var cur contender
	var price int64
	if leader != nil {
		cur = *leader
		price = leader.entry
	} else {
		// Strongest contender opens the bidding at the floor.
		sortContenders(pool)
		cur = pool[0]
		pool = pool[1:]
		price = maxInt64(cur.entry, floor)
	}

	// Descending by strength so the price never has to move backward.
	sortContenders(pool)

	rounds := 0
	for _, challenger := range pool {
		if challenger.bidderID == cur.bidderID {
			continue
		}
		rounds++

		if challenger.beats(cur) {
			bid := minInt64(challenger.ceiling, cur.ceiling+minIncrement)
			price = maxInt64(price, maxInt64(challenger.entry, bid))
			cur = challenger
		} else {
			// Leader defends: price rises just past the challenger's reach,
			// capped at the leader's own ceiling.
			defend := minInt64(cur.ceiling, challenger.ceiling+minIncrement)
			price = maxInt64(price, defend)
		}
	}

	if price > cur.ceiling {
		price = cur.ceiling
	}
	if price < cur.entry {
		price = cur.entry
	}

	return resolveOutcome{winner: cur, finalAmount: price, rounds: rounds}
}

// sortContenders orders strongest first: higher ceiling, then earlier
// placement.
func sortContenders(cs []contender) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].ceiling != cs[j].ceiling {
			return cs[i].ceiling > cs[j].ceiling
		}
		return cs[i].placedAt.Before(cs[j].placedAt)
	})
}

// usableCeiling caps an auto-bid ceiling by the coins the bidder can actually
// commit: what they already hold for this auction plus their free balance.
func usableCeiling(ceiling, held, balance int64) int64 {
	if available := held + balance; ceiling > available {
		return available
	}
	return ceiling
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
