package engine

import (
	"testing"
	"time"
)

var (
	t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(1 * time.Minute)
	t2 = t0.Add(2 * time.Minute)
	t3 = t0.Add(3 * time.Minute)
)

func TestResolveContenders_FirstBid(t *testing.T) {
	incoming := contender{bidderID: "a", entry: 100, ceiling: 100, placedAt: t1}

	got := resolveContenders(nil, nil, incoming, 10, 100)

	if got.winner.bidderID != "a" {
		t.Fatalf("winner = %s, want a", got.winner.bidderID)
	}
	if got.finalAmount != 100 {
		t.Errorf("finalAmount = %d, want 100", got.finalAmount)
	}
}

func TestResolveContenders_ManualOutbidsManual(t *testing.T) {
	leader := contender{bidderID: "a", entry: 100, ceiling: 100, placedAt: t1}
	incoming := contender{bidderID: "b", entry: 120, ceiling: 120, placedAt: t2}

	got := resolveContenders(&leader, nil, incoming, 10, 100)

	if got.winner.bidderID != "b" {
		t.Fatalf("winner = %s, want b", got.winner.bidderID)
	}
	if got.finalAmount != 120 {
		t.Errorf("finalAmount = %d, want 120", got.finalAmount)
	}
}

// Auto-bid enters at its stated amount, not its ceiling, when nothing forces
// it higher.
func TestResolveContenders_CeilingEntersAtAmount(t *testing.T) {
	leader := contender{bidderID: "a", entry: 100, ceiling: 100, placedAt: t1}
	incoming := contender{bidderID: "b", entry: 120, ceiling: 200, placedAt: t2}

	got := resolveContenders(&leader, nil, incoming, 10, 100)

	if got.winner.bidderID != "b" {
		t.Fatalf("winner = %s, want b", got.winner.bidderID)
	}
	if got.finalAmount != 120 {
		t.Errorf("finalAmount = %d, want 120", got.finalAmount)
	}
}

// The leading auto-bid defends against a lower manual bid at one increment
// above it, capped at the ceiling.
func TestResolveContenders_AutoBidDefends(t *testing.T) {
	leader := contender{bidderID: "b", entry: 120, ceiling: 200, placedAt: t1}
	incoming := contender{bidderID: "c", entry: 150, ceiling: 150, placedAt: t2}

	got := resolveContenders(&leader, nil, incoming, 10, 100)

	if got.winner.bidderID != "b" {
		t.Fatalf("winner = %s, want b", got.winner.bidderID)
	}
	if got.finalAmount != 160 {
		t.Errorf("finalAmount = %d, want 160", got.finalAmount)
	}
}

func TestResolveContenders_HigherCeilingWins(t *testing.T) {
	leader := contender{bidderID: "a", entry: 100, ceiling: 130, placedAt: t1}
	incoming := contender{bidderID: "b", entry: 120, ceiling: 200, placedAt: t2}

	got := resolveContenders(&leader, nil, incoming, 10, 100)

	if got.winner.bidderID != "b" {
		t.Fatalf("winner = %s, want b", got.winner.bidderID)
	}
	// One increment above the displaced ceiling.
	if got.finalAmount != 140 {
		t.Errorf("finalAmount = %d, want 140", got.finalAmount)
	}
}

// Equal ceilings: the earlier-placed auto-bid keeps the lead, at the ceiling
// amount.
func TestResolveContenders_EqualCeilingsFirstMoverWins(t *testing.T) {
	leader := contender{bidderID: "a", entry: 100, ceiling: 200, placedAt: t1}
	incoming := contender{bidderID: "b", entry: 130, ceiling: 200, placedAt: t2}

	got := resolveContenders(&leader, nil, incoming, 10, 100)

	if got.winner.bidderID != "a" {
		t.Fatalf("winner = %s, want a", got.winner.bidderID)
	}
	if got.finalAmount != 200 {
		t.Errorf("finalAmount = %d, want 200", got.finalAmount)
	}
}

// A displaced third auto-bid triggers another resolution round until a single
// leader with no profitable counter remains.
func TestResolveContenders_ThirdAutoBidChain(t *testing.T) {
	leader := contender{bidderID: "l", entry: 110, ceiling: 120, placedAt: t1}
	rivals := []contender{
		{bidderID: "r", entry: 100, ceiling: 200, placedAt: t0},
	}
	incoming := contender{bidderID: "i", entry: 130, ceiling: 150, placedAt: t2}

	got := resolveContenders(&leader, rivals, incoming, 10, 100)

	if got.winner.bidderID != "r" {
		t.Fatalf("winner = %s, want r", got.winner.bidderID)
	}
	// r defends against i's 150 ceiling at 160.
	if got.finalAmount != 160 {
		t.Errorf("finalAmount = %d, want 160", got.finalAmount)
	}
	if got.rounds != 2 {
		t.Errorf("rounds = %d, want 2", got.rounds)
	}
}

// A weaker standing ceiling cannot drag the price back down.
func TestResolveContenders_PriceNeverDecreases(t *testing.T) {
	leader := contender{bidderID: "a", entry: 150, ceiling: 150, placedAt: t1}
	rivals := []contender{
		{bidderID: "r", entry: 100, ceiling: 140, placedAt: t0},
	}
	incoming := contender{bidderID: "c", entry: 160, ceiling: 220, placedAt: t3}

	got := resolveContenders(&leader, rivals, incoming, 10, 100)

	if got.winner.bidderID != "c" {
		t.Fatalf("winner = %s, want c", got.winner.bidderID)
	}
	if got.finalAmount != 160 {
		t.Errorf("finalAmount = %d, want 160", got.finalAmount)
	}
}

// Walks the documented scenario: start 100, increment 10. A bids 100, B bids
// 120 with a 200 ceiling, C bids 150. B ends leading at 160.
func TestResolveContenders_SequentialScenario(t *testing.T) {
	a := contender{bidderID: "a", entry: 100, ceiling: 100, placedAt: t1}

	first := resolveContenders(nil, nil, a, 10, 100)
	if first.winner.bidderID != "a" || first.finalAmount != 100 {
		t.Fatalf("after A: winner %s at %d, want a at 100", first.winner.bidderID, first.finalAmount)
	}

	b := contender{bidderID: "b", entry: 120, ceiling: 200, placedAt: t2}
	leadA := contender{bidderID: "a", entry: 100, ceiling: 100, placedAt: t1}
	second := resolveContenders(&leadA, nil, b, 10, 100)
	if second.winner.bidderID != "b" || second.finalAmount != 120 {
		t.Fatalf("after B: winner %s at %d, want b at 120", second.winner.bidderID, second.finalAmount)
	}

	c := contender{bidderID: "c", entry: 150, ceiling: 150, placedAt: t3}
	leadB := contender{bidderID: "b", entry: 120, ceiling: 200, placedAt: t2}
	third := resolveContenders(&leadB, nil, c, 10, 100)
	if third.winner.bidderID != "b" || third.finalAmount != 160 {
		t.Fatalf("after C: winner %s at %d, want b at 160", third.winner.bidderID, third.finalAmount)
	}
}

func TestUsableCeiling(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int64
		held    int64
		balance int64
		want    int64
	}{
		{name: "fully funded", ceiling: 200, held: 120, balance: 880, want: 200},
		{name: "capped by funds", ceiling: 200, held: 120, balance: 30, want: 150},
		{name: "no hold", ceiling: 140, held: 0, balance: 100, want: 100},
		{name: "exact", ceiling: 150, held: 100, balance: 50, want: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usableCeiling(tt.ceiling, tt.held, tt.balance); got != tt.want {
				t.Errorf("usableCeiling(%d, %d, %d) = %d, want %d",
					tt.ceiling, tt.held, tt.balance, got, tt.want)
			}
		})
	}
}
