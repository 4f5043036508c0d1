package stake

import (
	"fmt"
	"math"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
)

// DefaultKellyFraction is used when a request leaves KellyFraction unset.
const DefaultKellyFraction = analysis.DefaultKellyFraction

// Allocation says how Kelly fractions of several legs map onto one bankroll.
type Allocation string

const (
	// AllocatePartition splits the bankroll across legs in proportion to
	// their Kelly fractions: stake_i = bankroll * f_i / Σf_j.
	AllocatePartition Allocation = "partition"

	// AllocateIndependent stakes each leg at its own Kelly fraction of the
	// bankroll: stake_i = bankroll * f_i, scaled down together if the total
	// would exceed the bankroll.
	AllocateIndependent Allocation = "independent"
)

// ParseAllocation maps a name to an Allocation. The empty string is rejected.
func ParseAllocation(s string) (Allocation, error) {
	switch a := Allocation(s); a {
	case AllocatePartition, AllocateIndependent:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q is not one of %q, %q", ErrAllocationRequired, s, AllocatePartition, AllocateIndependent)
}

// EVLeg is a priced outcome paired with its fair probability.
type EVLeg struct {
	odds.Outcome
	FairProbability float64 `json:"fair_probability"`
}

// EVLegPlan is one leg's sizing.
type EVLegPlan struct {
	EVLeg
	// EV is evaluated at unit stake, so EV.EVPercent is the leg's edge.
	EV             analysis.EVResult `json:"ev"`
	Kelly          float64           `json:"kelly"`
	Stake          float64           `json:"stake"`
	ExpectedProfit float64           `json:"expected_profit"`
}

// PositiveEVPlan is the result of POSITIVE_EV mode.
type PositiveEVPlan struct {
	Bankroll       float64     `json:"bankroll"`
	KellyFraction  float64     `json:"kelly_fraction"`
	Allocation     Allocation  `json:"allocation"`
	Legs           []EVLegPlan `json:"legs"`
	Stakes         StakePlan   `json:"stakes"`
	TotalStake     float64     `json:"total_stake"`
	ExpectedProfit float64     `json:"expected_profit"`
	// Scaled is set when independent stakes were reduced to fit the bankroll.
	Scaled bool `json:"scaled,omitempty"`
	// NoPositiveEV is set when every leg has a zero Kelly fraction.
	NoPositiveEV bool `json:"no_positive_ev"`
}

// PositiveEV sizes +EV legs with fractional Kelly.
// kellyFraction of 0 selects DefaultKellyFraction; the allocation policy has
// no default.
func PositiveEV(legs []EVLeg, bankroll, kellyFraction float64, alloc Allocation) (PositiveEVPlan, error) {
	if err := validateBankroll(bankroll); err != nil {
		return PositiveEVPlan{}, err
	}
	if kellyFraction == 0 {
		kellyFraction = DefaultKellyFraction
	}
	if kellyFraction < 0 || kellyFraction > 1 || math.IsNaN(kellyFraction) {
		return PositiveEVPlan{}, fmt.Errorf("%w: %v is outside (0,1]", ErrInvalidKellyFraction, kellyFraction)
	}
	if alloc != AllocatePartition && alloc != AllocateIndependent {
		return PositiveEVPlan{}, fmt.Errorf("%w: got %q", ErrAllocationRequired, alloc)
	}
	if len(legs) == 0 {
		return PositiveEVPlan{}, fmt.Errorf("%w: no legs", odds.ErrInvalidMarket)
	}

	plan := PositiveEVPlan{
		Bankroll:      bankroll,
		KellyFraction: kellyFraction,
		Allocation:    alloc,
		Legs:          make([]EVLegPlan, 0, len(legs)),
		Stakes:        make(StakePlan, len(legs)),
	}

	var sumKelly float64
	for i, leg := range legs {
		if leg.Label == "" {
			return PositiveEVPlan{}, fmt.Errorf("%w: leg %d has no label", odds.ErrInvalidMarket, i)
		}
		if _, dup := plan.Stakes[leg.Label]; dup {
			return PositiveEVPlan{}, fmt.Errorf("%w: duplicate leg %q", odds.ErrInvalidMarket, leg.Label)
		}

		ev, err := analysis.Evaluate(1, leg.Odds.Decimal(), leg.FairProbability)
		if err != nil {
			return PositiveEVPlan{}, fmt.Errorf("leg %q: %w", leg.Label, err)
		}
		f := analysis.KellyFraction(leg.FairProbability, leg.Odds.Decimal(), kellyFraction)

		plan.Legs = append(plan.Legs, EVLegPlan{EVLeg: leg, EV: ev, Kelly: f})
		plan.Stakes[leg.Label] = 0
		sumKelly += f
	}

	if sumKelly == 0 {
		plan.NoPositiveEV = true
		return plan, nil
	}

	scale := bankroll
	switch alloc {
	case AllocatePartition:
		scale = bankroll / sumKelly
	case AllocateIndependent:
		if sumKelly > 1 {
			scale = bankroll / sumKelly
			plan.Scaled = true
		}
	}

	for i := range plan.Legs {
		leg := &plan.Legs[i]
		leg.Stake = analysis.OptimalBetSize(scale, leg.Kelly)
		leg.ExpectedProfit = leg.Stake * leg.EV.ExpectedValue
		plan.Stakes[leg.Label] = leg.Stake
		plan.TotalStake += leg.Stake
		plan.ExpectedProfit += leg.ExpectedProfit
	}

	return plan, nil
}
