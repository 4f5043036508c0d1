package analysis

import (
	"fmt"
	"math"

	"edge-calculator/internal/mathutil"
)

const (
	// DefaultSpreadStdDev is the standard deviation of NBA margin vs spread
	// Based on historical data: ATS margin follows N(0, ~11.5)
	// Sources: Boyd's Bets, Wayne Winston Mathletics
	DefaultSpreadStdDev = 11.5

	// DefaultTotalStdDev is the standard deviation for NBA totals
	// Based on Boyd's Bets O/U margin data (empirical range 15-21)
	DefaultTotalStdDev = 17.0
)

// MiddleInput describes two bets on the same number (a total or a margin).
// The Above bet wins when the result lands above AboveLine (Over 218.5, Fav -2.5);
// the Below bet wins when it lands below BelowLine (Under 221.5, Dog +5.5).
type MiddleInput struct {
	AboveLine  float64 `json:"above_line"`
	BelowLine  float64 `json:"below_line"`
	AboveOdds  float64 `json:"above_odds"`
	BelowOdds  float64 `json:"below_odds"`
	AboveStake float64 `json:"above_stake"`
	BelowStake float64 `json:"below_stake"`
	StdDev     float64 `json:"std_dev"`

	// Mean is the projected result. When nil it is inferred from
	// AboveFairProbability, the fair chance the Above bet wins.
	Mean                 *float64 `json:"mean,omitempty"`
	AboveFairProbability float64  `json:"above_fair_probability,omitempty"`
}

// MiddleResult gives the three possible settlements and their likelihood
// under a normal model of the result.
type MiddleResult struct {
	Width                float64 `json:"width"`
	Mean                 float64 `json:"mean"`
	MiddleProbability    float64 `json:"middle_probability"`
	AboveOnlyProbability float64 `json:"above_only_probability"`
	BelowOnlyProbability float64 `json:"below_only_probability"`
	ProfitMiddle         float64 `json:"profit_middle"`
	ProfitAboveOnly      float64 `json:"profit_above_only"`
	ProfitBelowOnly      float64 `json:"profit_below_only"`
	ExpectedProfit       float64 `json:"expected_profit"`
}

// EvaluateMiddle prices a middle: both bets win when the result falls strictly
// inside (AboveLine, BelowLine), exactly one wins otherwise. The result is
// modelled as N(mean, stdDev); pushes on whole-number lines are ignored.
func EvaluateMiddle(in MiddleInput) (MiddleResult, error) {
	if in.BelowLine <= in.AboveLine {
		return MiddleResult{}, fmt.Errorf("%w: above line %v must sit below below line %v", ErrInvalidMiddle, in.AboveLine, in.BelowLine)
	}
	if in.StdDev <= 0 || math.IsNaN(in.StdDev) {
		return MiddleResult{}, fmt.Errorf("%w: std dev must be positive, got %v", ErrInvalidMiddle, in.StdDev)
	}

	above, err := Evaluate(in.AboveStake, in.AboveOdds, 0)
	if err != nil {
		return MiddleResult{}, fmt.Errorf("above bet: %w", err)
	}
	below, err := Evaluate(in.BelowStake, in.BelowOdds, 0)
	if err != nil {
		return MiddleResult{}, fmt.Errorf("below bet: %w", err)
	}

	mean, err := middleMean(in)
	if err != nil {
		return MiddleResult{}, err
	}

	dist := mathutil.Normal{Mean: mean, StdDev: in.StdDev}
	pBelowLine := dist.CDF(in.AboveLine)
	pBelowHigh := dist.CDF(in.BelowLine)

	res := MiddleResult{
		Width:                in.BelowLine - in.AboveLine,
		Mean:                 mean,
		MiddleProbability:    dist.Between(in.AboveLine, in.BelowLine),
		BelowOnlyProbability: pBelowLine,
		AboveOnlyProbability: 1 - pBelowHigh,
		ProfitMiddle:         above.ProfitIfWin + below.ProfitIfWin,
		ProfitAboveOnly:      above.ProfitIfWin - in.BelowStake,
		ProfitBelowOnly:      below.ProfitIfWin - in.AboveStake,
	}
	res.ExpectedProfit = res.MiddleProbability*res.ProfitMiddle +
		res.AboveOnlyProbability*res.ProfitAboveOnly +
		res.BelowOnlyProbability*res.ProfitBelowOnly

	return res, nil
}

// middleMean returns the supplied mean or backs it out of the Above bet's fair
// probability: P(X > line) = p  ⇒  mean = line + σ·Φ⁻¹(p).
func middleMean(in MiddleInput) (float64, error) {
	if in.Mean != nil {
		return *in.Mean, nil
	}
	p := in.AboveFairProbability
	if p <= 0 || p >= 1 || math.IsNaN(p) {
		return 0, fmt.Errorf("%w: need a mean or an above fair probability in (0,1), got %v", ErrInvalidProbability, p)
	}
	return mathutil.MeanFromTail(in.AboveLine, in.StdDev, p), nil
}
