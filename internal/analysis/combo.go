package analysis

import (
	"fmt"

	"edge-calculator/internal/odds"
)

// IndependenceWarning is attached to every combo priced with the product rule.
// Nothing here can tell whether legs are really independent.
const IndependenceWarning = "legs are priced as independent events; correlated legs (same-game parlays) need a caller-supplied joint probability"

// Leg is one selection of a parlay.
type Leg struct {
	Label           string  `json:"label,omitempty"`
	DecimalOdds     float64 `json:"decimal_odds"`
	FairProbability float64 `json:"fair_probability"`
}

// ComboResult describes a parlay built from two or more legs.
type ComboResult struct {
	CombinedDecimal         float64    `json:"combined_decimal"`
	CombinedFairProbability float64    `json:"combined_fair_probability"`
	JointSupplied           bool       `json:"joint_supplied"`
	EV                      EVResult   `json:"ev"`
	LegEV                   []EVResult `json:"leg_ev"`
	Warnings                []string   `json:"warnings,omitempty"`
}

// Combine prices a parlay under independence:
// combinedDecimal = Π decimal_i, combinedFair = Π fair_i.
// The result always carries IndependenceWarning.
func Combine(legs []Leg, stake float64) (ComboResult, error) {
	res, err := combine(legs, stake)
	if err != nil {
		return ComboResult{}, err
	}

	fair := 1.0
	for _, l := range legs {
		fair *= l.FairProbability
	}
	res.CombinedFairProbability = fair
	res.Warnings = append(res.Warnings, IndependenceWarning)

	res.EV, err = Evaluate(stake, res.CombinedDecimal, fair)
	if err != nil {
		return ComboResult{}, err
	}
	return res, nil
}

// CombineJoint prices a parlay whose legs may be correlated, using a joint
// probability computed by the caller instead of the product of leg probabilities.
func CombineJoint(legs []Leg, jointProbability, stake float64) (ComboResult, error) {
	if err := validateProbability(jointProbability); err != nil {
		return ComboResult{}, fmt.Errorf("joint probability: %w", err)
	}

	res, err := combine(legs, stake)
	if err != nil {
		return ComboResult{}, err
	}
	res.CombinedFairProbability = jointProbability
	res.JointSupplied = true

	res.EV, err = Evaluate(stake, res.CombinedDecimal, jointProbability)
	if err != nil {
		return ComboResult{}, err
	}
	return res, nil
}

// combine validates the legs and multiplies their prices.
func combine(legs []Leg, stake float64) (ComboResult, error) {
	if len(legs) < 2 {
		return ComboResult{}, fmt.Errorf("%w: need at least 2 legs, got %d", ErrInvalidCombo, len(legs))
	}
	if err := validateStake(stake); err != nil {
		return ComboResult{}, err
	}

	res := ComboResult{CombinedDecimal: 1}
	for i, l := range legs {
		v, err := odds.NewOddsValue(l.DecimalOdds)
		if err != nil {
			return ComboResult{}, fmt.Errorf("leg %d: %w", i, err)
		}
		legEV, err := Evaluate(1, v.Decimal(), l.FairProbability)
		if err != nil {
			return ComboResult{}, fmt.Errorf("leg %d: %w", i, err)
		}
		res.LegEV = append(res.LegEV, legEV)
		res.CombinedDecimal *= v.Decimal()
	}
	return res, nil
}
