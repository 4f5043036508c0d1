package positions

import (
	"fmt"

	"edge-calculator/internal/odds"
	"edge-calculator/internal/stake"
)

// Hedge actions.
const (
	ActionHedge = "hedge"
	ActionHold  = "hold"
)

// HedgeAdvice is the result of pricing a hedge against an existing position
type HedgeAdvice struct {
	Position         Position             `json:"position"`
	HedgeDecimal     float64              `json:"hedge_decimal"`
	HedgeSource      string               `json:"hedge_source,omitempty"`
	HedgeStake       float64              `json:"hedge_stake"`
	GuaranteedProfit float64              `json:"guaranteed_profit"`
	Action           string               `json:"action"` // "hedge" or "hold"
	Description      string               `json:"description"`
	FreeBet          *stake.HedgePlan     `json:"free_bet,omitempty"`
	Cash             *stake.CashHedgePlan `json:"cash,omitempty"`
}

// AdviseHedge prices the opposing bet that locks in an equal result for pos.
// Free bets use the free-bet conversion formula, cash bets the equal-payout one.
// The action is "hedge" only when the locked-in result is a profit.
func AdviseHedge(pos Position, hedgeDecimal float64) (HedgeAdvice, error) {
	advice := HedgeAdvice{Position: pos, HedgeDecimal: hedgeDecimal}

	if pos.FreeBet {
		plan, err := stake.Hedge(stake.HedgeParams{
			FreeStake:    pos.Stake,
			FreeDecimal:  pos.DecimalOdds,
			HedgeDecimal: hedgeDecimal,
		})
		if err != nil {
			return HedgeAdvice{}, err
		}
		advice.FreeBet = &plan
		advice.HedgeStake = plan.HedgeStake
		advice.GuaranteedProfit = plan.GuaranteedProfit
	} else {
		plan, err := stake.CashHedge(pos.Stake, pos.DecimalOdds, hedgeDecimal)
		if err != nil {
			return HedgeAdvice{}, err
		}
		advice.Cash = &plan
		advice.HedgeStake = plan.HedgeStake
		advice.GuaranteedProfit = plan.GuaranteedProfit
	}

	if advice.GuaranteedProfit > 0 {
		advice.Action = ActionHedge
		advice.Description = fmt.Sprintf(
			"HEDGE: Stake $%.2f against %s at %.3f. Entry was $%.2f at %.3f. Guaranteed profit: $%.2f",
			advice.HedgeStake, pos.Label, hedgeDecimal, pos.Stake, pos.DecimalOdds, advice.GuaranteedProfit,
		)
	} else {
		advice.Action = ActionHold
		advice.Description = fmt.Sprintf(
			"HOLD: Hedging %s at %.3f would lock in $%.2f",
			pos.Label, hedgeDecimal, advice.GuaranteedProfit,
		)
	}

	return advice, nil
}

// FindHedgeOpportunities checks positions on one event against a two-way market
// and returns the ones that can be hedged for a guaranteed profit.
// The opposing price for each position is the best price on the other label.
func FindHedgeOpportunities(positions []Position, eventID string, market odds.OddsSet) ([]HedgeAdvice, error) {
	if err := market.Validate(); err != nil {
		return nil, err
	}
	best := odds.BestPrices(market)
	if len(best) != 2 {
		return nil, fmt.Errorf("%w: hedging needs a two-way market, got %d labels", odds.ErrInvalidMarket, len(best))
	}

	var opportunities []HedgeAdvice
	for _, pos := range positions {
		if pos.EventID != eventID {
			continue
		}

		opposite, ok := opposing(best, pos.Label)
		if !ok {
			continue
		}

		advice, err := AdviseHedge(pos, opposite.Odds.Decimal())
		if err != nil {
			return nil, fmt.Errorf("position %s: %w", pos.ID, err)
		}
		if advice.Action != ActionHedge {
			continue
		}
		advice.HedgeSource = opposite.Source
		opportunities = append(opportunities, advice)
	}

	return opportunities, nil
}

// opposing returns the other side of a two-way market, if label is one side.
func opposing(twoWay odds.OddsSet, label string) (odds.Outcome, bool) {
	switch label {
	case twoWay[0].Label:
		return twoWay[1], true
	case twoWay[1].Label:
		return twoWay[0], true
	}
	return odds.Outcome{}, false
}
