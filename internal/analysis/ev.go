package analysis

import (
	"fmt"
	"math"

	"edge-calculator/internal/odds"
)

// EVResult is the expected value of one wager at a given stake.
type EVResult struct {
	Stake           float64 `json:"stake"`
	DecimalOdds     float64 `json:"decimal_odds"`
	FairProbability float64 `json:"fair_probability"`
	ProfitIfWin     float64 `json:"profit_if_win"`
	ExpectedValue   float64 `json:"expected_value"`
	EVPercent       float64 `json:"ev_percent"`
	// ExpectedProfit is the same quantity as ExpectedValue under the name callers often use.
	ExpectedProfit float64 `json:"expected_profit"`
}

// Positive reports whether the wager is +EV.
func (r EVResult) Positive() bool { return r.ExpectedValue > 0 }

// Evaluate calculates the expected value of a bet
// EV = (fairProb * profit) - ((1 - fairProb) * stake)
// where profit = stake * (decimal - 1)
func Evaluate(stake, decimalOdds, fairProbability float64) (EVResult, error) {
	if err := validateStake(stake); err != nil {
		return EVResult{}, err
	}
	if _, err := odds.NewOddsValue(decimalOdds); err != nil {
		return EVResult{}, err
	}
	if err := validateProbability(fairProbability); err != nil {
		return EVResult{}, err
	}

	profit := stake * (decimalOdds - 1)
	ev := fairProbability*profit - (1-fairProbability)*stake

	return EVResult{
		Stake:           stake,
		DecimalOdds:     decimalOdds,
		FairProbability: fairProbability,
		ProfitIfWin:     profit,
		ExpectedValue:   ev,
		EVPercent:       Edge(fairProbability, decimalOdds) * 100,
		ExpectedProfit:  ev,
	}, nil
}

// Edge is the return per unit staked implied by a fair probability: p*d - 1.
// Positive edge = +EV bet.
func Edge(fairProbability, decimalOdds float64) float64 {
	return fairProbability*decimalOdds - 1
}

// FairOdds converts a fair probability to the decimal price with zero edge.
func FairOdds(fairProbability float64) (float64, error) {
	if fairProbability <= 0 || fairProbability > 1 || math.IsNaN(fairProbability) {
		return 0, fmt.Errorf("%w: %v has no fair price", ErrInvalidProbability, fairProbability)
	}
	return 1 / fairProbability, nil
}

func validateStake(stake float64) error {
	if stake <= 0 || math.IsNaN(stake) || math.IsInf(stake, 0) {
		return fmt.Errorf("%w: stake must be positive, got %v", ErrInvalidStake, stake)
	}
	return nil
}

func validateProbability(p float64) error {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return fmt.Errorf("%w: %v is outside [0,1]", ErrInvalidProbability, p)
	}
	return nil
}
