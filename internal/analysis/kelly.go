package analysis

import "math"

// DefaultKellyFraction is quarter Kelly.
const DefaultKellyFraction = 0.25

// KellyFraction computes the fractional Kelly bet size for decimal odds
// f* = (p * d - 1) / (d - 1)
// where d = decimal odds, p = fair probability
//
// fraction scales the result (e.g., 0.25 for quarter Kelly). The result is
// clamped to [0, 1]; invalid inputs size to 0.
func KellyFraction(fairProbability, decimalOdds, fraction float64) float64 {
	if decimalOdds <= 1 || fairProbability < 0 || fairProbability > 1 || fraction <= 0 {
		return 0
	}

	p := fairProbability
	d := decimalOdds

	kelly := fraction * (p*d - 1) / (d - 1)

	// Floor at 0 and never bet more than 100% of bankroll
	kelly = math.Max(0, kelly)
	kelly = math.Min(kelly, 1.0)

	return kelly
}

// OptimalBetSize returns the dollar amount to bet given bankroll
func OptimalBetSize(bankroll, kellyFraction float64) float64 {
	return bankroll * kellyFraction
}
