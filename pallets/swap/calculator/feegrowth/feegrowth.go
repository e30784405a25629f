// Package feegrowth computes per-position fee accrual from the pool's
// cumulative fee-growth counters.
//
// The chain tracks, per asset, a global counter of fees earned per unit of
// liquidity since pool inception, plus one "fees outside" snapshot per
// initialized tick: the portion of the global counter accumulated on the far
// side of that tick from the pool's genesis price. From those two values the
// fees earned inside any tick range follow in O(1), independent of how long
// the position has existed.
//
// The outside-tracking convention flips meaning depending on which side of
// the current tick a boundary sits on. That branch is modeled as the explicit
// Side type rather than a bare boolean; sign confusion here is the classic
// bug in this style of accounting.
package feegrowth

import "github.com/shopspring/decimal"

// Side places a tick relative to the pool's current tick.
type Side int

const (
	// AtOrBelowCurrent means tickIndex <= currentTick.
	AtOrBelowCurrent Side = iota
	// AboveCurrent means tickIndex > currentTick.
	AboveCurrent
)

func (s Side) String() string {
	if s == AtOrBelowCurrent {
		return "at-or-below"
	}
	return "above"
}

// SideOf classifies a tick against the current tick.
func SideOf(tickIndex, currentTick int64) Side {
	if tickIndex <= currentTick {
		return AtOrBelowCurrent
	}
	return AboveCurrent
}

// Below returns the cumulative fee growth that occurred at prices below the
// tick. When the tick is at or below the current price its outside snapshot
// already faces downward; otherwise the downward-facing portion is the
// global counter minus the snapshot.
func Below(side Side, outside, global decimal.Decimal) decimal.Decimal {
	if side == AtOrBelowCurrent {
		return outside
	}
	return global.Sub(outside)
}

// Above returns the cumulative fee growth that occurred at prices above the
// tick, the mirror of Below.
func Above(side Side, outside, global decimal.Decimal) decimal.Decimal {
	if side == AtOrBelowCurrent {
		return global.Sub(outside)
	}
	return outside
}

// Inside returns the fee growth accumulated strictly between the two range
// boundaries since pool inception:
//
//	global - below(lowTick) - above(highTick)
func Inside(currentTick, lowTick, highTick int64, lowOutside, highOutside, global decimal.Decimal) decimal.Decimal {
	below := Below(SideOf(lowTick, currentTick), lowOutside, global)
	above := Above(SideOf(highTick, currentTick), highOutside, global)
	return global.Sub(below).Sub(above)
}

// Owed returns the fees a position has earned since its baseline snapshot:
// liquidity * (inside - baseline). The counters are monotone in block order,
// so a negative delta can only come from wraparound or inconsistent inputs;
// in that case the result is clamped to zero and underflow reports it so the
// caller can flag the state.
func Owed(liquidity, inside, baseline decimal.Decimal) (owed decimal.Decimal, underflow bool) {
	delta := inside.Sub(baseline)
	if delta.Sign() < 0 {
		return decimal.Zero, true
	}
	return liquidity.Mul(delta), false
}
