// Package rollover holds the pure wagering policy that gates bonus funds.
package rollover

import "github.com/shopspring/decimal"

// Target returns the wagering volume required before a granted bonus
// unlocks: bonus × multiplier.
func Target(bonus, multiplier decimal.Decimal) decimal.Decimal {
	if bonus.Sign() <= 0 || multiplier.Sign() <= 0 {
		return decimal.Zero
	}
	return bonus.Mul(multiplier)
}

// Reduce consumes wagered volume against the remaining requirement.
// Monotonically non-increasing, floored at zero.
func Reduce(remaining, wagered decimal.Decimal) decimal.Decimal {
	if remaining.Sign() <= 0 {
		return decimal.Zero
	}
	if wagered.Sign() <= 0 {
		return remaining
	}
	next := remaining.Sub(wagered)
	if next.Sign() < 0 {
		return decimal.Zero
	}
	return next
}

// Unlocked reports whether bonus funds are released.
func Unlocked(remaining decimal.Decimal) bool {
	return remaining.Sign() <= 0
}
