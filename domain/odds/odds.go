// Package odds implements American-odds pricing math: payouts, implied
// probabilities, Kelly stake sizing, and decimal conversions. Everything here
// is pure; amounts are token counts and results are floored to whole tokens.
package odds

import "math"

const (
	// MinMagnitude is the smallest legal absolute value of American odds.
	MinMagnitude = 100
	// MaxMagnitude is the largest absolute value accepted for a line.
	MaxMagnitude = 10000

	// MaxKellyFraction caps the recommended stake at a quarter of bankroll.
	MaxKellyFraction = 0.25
)

// Valid reports whether o is a legal American odds value: non-zero, magnitude
// at least 100 and at most 10000. Callers reject invalid odds before pricing
// a bet.
func Valid(o int) bool {
	if o == 0 {
		return false
	}
	mag := o
	if mag < 0 {
		mag = -mag
	}
	return mag >= MinMagnitude && mag <= MaxMagnitude
}

// Payout returns stake plus winnings for a winning bet of amount at odds,
// floored to whole tokens. Positive odds pay odds/100 per token staked;
// negative odds pay 100/|odds| per token staked.
func Payout(amount int64, o int) int64 {
	if amount <= 0 || !Valid(o) {
		return 0
	}
	var winnings float64
	if o > 0 {
		winnings = float64(amount) * float64(o) / 100
	} else {
		winnings = float64(amount) * 100 / float64(-o)
	}
	return amount + int64(math.Floor(winnings))
}

// Winnings returns the profit portion of Payout.
func Winnings(amount int64, o int) int64 {
	p := Payout(amount, o)
	if p == 0 {
		return 0
	}
	return p - amount
}

// MinStakeFor returns the smallest stake that still wins at least one whole
// token at the given odds. Payouts floor to whole tokens, so tiny stakes at
// negative odds would otherwise win a bet and return only the stake;
// placements below this minimum are rejected.
func MinStakeFor(o int) int64 {
	if !Valid(o) {
		return 0
	}
	if o > 0 {
		return 1
	}
	return int64((-o + 99) / 100)
}

// ImpliedProbability returns the break-even win probability the odds imply,
// always in (0, 1) for valid odds.
func ImpliedProbability(o int) float64 {
	if !Valid(o) {
		return 0
	}
	if o > 0 {
		return 100 / (float64(o) + 100)
	}
	return float64(-o) / (float64(-o) + 100)
}

// KellyStake returns the recommended stake from bankroll at the given odds
// when the bettor believes the true win probability is winProb. The Kelly
// fraction f = (p*b - q) / b with b the net decimal odds is clamped to
// [0, MaxKellyFraction], so the result is never negative and never more than
// a quarter of bankroll.
func KellyStake(bankroll int64, o int, winProb float64) int64 {
	if bankroll <= 0 || !Valid(o) || winProb <= 0 || winProb >= 1 {
		return 0
	}
	b := ToDecimal(o) - 1
	if b <= 0 {
		return 0
	}
	f := (winProb*b - (1 - winProb)) / b
	if f < 0 {
		f = 0
	}
	if f > MaxKellyFraction {
		f = MaxKellyFraction
	}
	// Round, not floor: f often lands a hair under an exact fraction
	// (0.6*1 - 0.4 in float64 is just below 0.2) and flooring would lose a
	// whole token to that artifact.
	return int64(math.Round(float64(bankroll) * f))
}

// ToDecimal converts American odds to decimal odds (total return per unit
// staked). Returns 0 for invalid odds.
func ToDecimal(o int) float64 {
	if !Valid(o) {
		return 0
	}
	if o > 0 {
		return 1 + float64(o)/100
	}
	return 1 + 100/float64(-o)
}

// FromDecimal converts decimal odds back to American odds, the exact inverse
// of ToDecimal to within rounding. Decimal odds of at most 1 carry no edge
// and return 0.
func FromDecimal(d float64) int {
	if d <= 1 {
		return 0
	}
	if d >= 2 {
		return int(math.Round((d - 1) * 100))
	}
	return -int(math.Round(100 / (d - 1)))
}
