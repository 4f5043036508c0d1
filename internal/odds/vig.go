package odds

import (
	"fmt"
	"math"

	"edge-calculator/internal/mathutil"
)

// Devig removes the bookmaker margin from a market.
// Returns the fair probabilities (summing to 1) and the vig as a percentage.
//
// Method: Multiplicative vig removal (proportional)
// fair_i = implied_i / Σ implied
// vig% = (Σ implied - 1) * 100
//
// A market whose implied probabilities sum below 1 is normalized the same way;
// spotting the arbitrage is the stake optimizer's job.
func Devig(s OddsSet) (ProbabilityDistribution, float64, error) {
	implied, err := Implied(s)
	if err != nil {
		return nil, 0, err
	}

	total := implied.Sum()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, 0, fmt.Errorf("%w: implied probabilities sum to %v", ErrDegenerateMarket, total)
	}

	fair := make(ProbabilityDistribution, len(implied))
	for label, p := range implied {
		fair[label] = p / total
	}
	return fair, vigPercent(total), nil
}

// DevigAdditive removes the margin by subtracting an equal share of the overround
// from every outcome. Longshots can be pushed to zero or below, which is reported
// as a degenerate market rather than clamped.
func DevigAdditive(s OddsSet) (ProbabilityDistribution, float64, error) {
	implied, err := Implied(s)
	if err != nil {
		return nil, 0, err
	}

	total := implied.Sum()
	share := (total - 1) / float64(len(implied))

	fair := make(ProbabilityDistribution, len(implied))
	for label, p := range implied {
		f := p - share
		if f <= 0 || f >= 1 {
			return nil, 0, fmt.Errorf("%w: additive devig gives %q probability %v", ErrDegenerateMarket, label, f)
		}
		fair[label] = f
	}
	return fair, vigPercent(total), nil
}

// DevigPower removes the margin using the Power method.
// This accounts for the favorite-longshot bias: longshots are systematically overbet.
// Finds k such that Σ p_i^k = 1, then fair_i = p_i^k.
// This deflates longshot probabilities more than favorites.
func DevigPower(s OddsSet) (ProbabilityDistribution, float64, error) {
	implied, err := Implied(s)
	if err != nil {
		return nil, 0, err
	}

	total := implied.Sum()
	probs := make([]float64, 0, len(implied))
	for _, p := range implied {
		probs = append(probs, p)
	}

	// Already fair: nothing to remove
	if math.Abs(total-1.0) < 1e-12 {
		return implied, 0, nil
	}

	k, err := findPowerExponent(probs)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: power devig: %v", ErrDegenerateMarket, err)
	}

	fair := make(ProbabilityDistribution, len(implied))
	sum := 0.0
	for label, p := range implied {
		fair[label] = math.Pow(p, k)
		sum += fair[label]
	}
	// Bisection leaves a residual well under 1e-12; fold it back in.
	for label := range fair {
		fair[label] /= sum
	}
	return fair, vigPercent(total), nil
}

// maxPowerExponent bounds the bracket search; 1.01/1.01 already needs k ≈ 69.
const maxPowerExponent = 1e6

// findPowerExponent finds k such that Σ p_i^k = 1.
// The sum falls as k grows, so overround markets get k > 1 and underround k < 1.
// The upper end of the bracket doubles until the sum drops below 1.
func findPowerExponent(probs []float64) (float64, error) {
	excess := func(k float64) float64 {
		sum := 0.0
		for _, p := range probs {
			sum += math.Pow(p, k)
		}
		return sum - 1
	}

	lo, hi := 0.01, 10.0
	for excess(hi) > 0 && hi < maxPowerExponent {
		lo, hi = hi, hi*2
	}
	return mathutil.Bisect(excess, lo, hi, 1e-12, 200)
}

func vigPercent(total float64) float64 {
	return (total - 1) * 100
}

// Method names a devig model.
type Method string

const (
	MethodMultiplicative Method = "multiplicative"
	MethodAdditive       Method = "additive"
	MethodPower          Method = "power"
)

// DevigWith runs the named model. An empty method is multiplicative.
func DevigWith(m Method, s OddsSet) (ProbabilityDistribution, float64, error) {
	switch m {
	case "", MethodMultiplicative:
		return Devig(s)
	case MethodAdditive:
		return DevigAdditive(s)
	case MethodPower:
		return DevigPower(s)
	}
	return nil, 0, fmt.Errorf("%w: unknown devig method %q", ErrInvalidMarket, m)
}
