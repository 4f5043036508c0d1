package stake

import (
	"fmt"

	"edge-calculator/internal/odds"
)

// ArbLeg is one outcome of an arbitrage with its equal-payout stake.
type ArbLeg struct {
	odds.Outcome
	ImpliedProbability float64 `json:"implied_probability"`
	Stake              float64 `json:"stake"`
	Payout             float64 `json:"payout"`
}

// ArbitragePlan is the result of ARBITRAGE mode. When Opportunity is false
// only the diagnostics (Total, HoldPercent, Implied) are set.
type ArbitragePlan struct {
	Opportunity bool                         `json:"opportunity"`
	Bankroll    float64                      `json:"bankroll"`
	Total       float64                      `json:"total_implied"`
	HoldPercent float64                      `json:"hold_percent"`
	Implied     odds.ProbabilityDistribution `json:"implied"`

	Legs             []ArbLeg  `json:"legs,omitempty"`
	Stakes           StakePlan `json:"stakes,omitempty"`
	Payout           float64   `json:"payout,omitempty"`
	GuaranteedProfit float64   `json:"guaranteed_profit,omitempty"`
	ROI              float64   `json:"roi,omitempty"`
}

// Arbitrage sizes stakes across every outcome so each pays bankroll/total.
// Cross-book sets with repeated labels are first reduced to the best price
// per label. A market whose implied probabilities sum to 1 or more returns a
// plan with Opportunity=false and no stakes.
func Arbitrage(set odds.OddsSet, bankroll float64) (ArbitragePlan, error) {
	if err := validateBankroll(bankroll); err != nil {
		return ArbitragePlan{}, err
	}
	if err := set.Validate(); err != nil {
		return ArbitragePlan{}, err
	}

	best := set
	if set.HasRepeatedLabels() {
		best = odds.BestPrices(set)
		if len(best) < 2 {
			return ArbitragePlan{}, fmt.Errorf("%w: need at least 2 distinct labels, got %d", odds.ErrInvalidMarket, len(best))
		}
	}

	implied, err := odds.Implied(best)
	if err != nil {
		return ArbitragePlan{}, err
	}

	total := best.Overround()
	plan := ArbitragePlan{
		Bankroll:    bankroll,
		Total:       total,
		HoldPercent: (total - 1) * 100,
		Implied:     implied,
	}

	if total >= 1 {
		return plan, nil
	}

	// stake_i * d_i = bankroll * p_i * d_i / total = bankroll / total
	payout := bankroll / total
	plan.Opportunity = true
	plan.Payout = payout
	plan.GuaranteedProfit = payout - bankroll
	plan.ROI = plan.GuaranteedProfit / bankroll * 100
	plan.Stakes = make(StakePlan, len(best))

	for _, o := range best {
		p := o.Odds.ImpliedProbability()
		s := bankroll * p / total
		plan.Legs = append(plan.Legs, ArbLeg{
			Outcome:            o,
			ImpliedProbability: p,
			Stake:              s,
			Payout:             s * o.Odds.Decimal(),
		})
		plan.Stakes[o.Label] = s
	}

	return plan, nil
}
