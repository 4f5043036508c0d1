package stake

import (
	"fmt"
	"math"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
)

// Stake plan labels used by the hedge solvers.
const (
	LabelFree  = "free"
	LabelBet   = "bet"
	LabelHedge = "hedge"
)

// HedgeParams describes a free bet and the opposing price used to lock it in.
type HedgeParams struct {
	FreeStake    float64 `json:"free_stake"`
	FreeDecimal  float64 `json:"free_decimal"`
	HedgeDecimal float64 `json:"hedge_decimal"`
}

// HedgePlan is the result of HEDGE mode.
type HedgePlan struct {
	HedgeStake       float64   `json:"hedge_stake"`
	NetIfFreeWins    float64   `json:"net_if_free_wins"`
	NetIfHedgeWins   float64   `json:"net_if_hedge_wins"`
	GuaranteedProfit float64   `json:"guaranteed_profit"`
	ConversionRate   float64   `json:"conversion_rate"`
	Negative         bool      `json:"negative"`
	Stakes           StakePlan `json:"stakes"`
}

// Hedge converts a free bet, which returns only its winnings, into a locked
// profit. The hedge stake equalizes both branches:
//
//	F*(dFree-1) - H = H*(dHedge-1)  ⇒  H = F*(dFree-1)/dHedge
func Hedge(p HedgeParams) (HedgePlan, error) {
	if err := validateHedge(p.FreeStake, p.FreeDecimal, p.HedgeDecimal); err != nil {
		return HedgePlan{}, err
	}

	winnings := p.FreeStake * (p.FreeDecimal - 1)
	h := winnings / p.HedgeDecimal

	plan := HedgePlan{
		HedgeStake:     h,
		NetIfFreeWins:  winnings - h,
		NetIfHedgeWins: h * (p.HedgeDecimal - 1),
		Stakes:         StakePlan{LabelFree: p.FreeStake, LabelHedge: h},
	}
	plan.GuaranteedProfit = plan.NetIfHedgeWins
	plan.ConversionRate = plan.GuaranteedProfit / p.FreeStake * 100
	plan.Negative = plan.ConversionRate < 0

	return plan, nil
}

// CashHedgePlan locks in an equal payout on a cash bet already placed.
type CashHedgePlan struct {
	HedgeStake       float64   `json:"hedge_stake"`
	Payout           float64   `json:"payout"`
	GuaranteedProfit float64   `json:"guaranteed_profit"`
	ROI              float64   `json:"roi"`
	Negative         bool      `json:"negative"`
	Stakes           StakePlan `json:"stakes"`
}

// CashHedge sizes the opposing stake for a cash bet so that both branches
// return the same amount: H = S*dBet/dHedge. Profit is measured against the
// total outlay S+H and is negative whenever the two prices carry vig.
func CashHedge(betStake, betDecimal, hedgeDecimal float64) (CashHedgePlan, error) {
	if err := validateHedge(betStake, betDecimal, hedgeDecimal); err != nil {
		return CashHedgePlan{}, err
	}

	payout := betStake * betDecimal
	h := payout / hedgeDecimal
	profit := payout - betStake - h

	return CashHedgePlan{
		HedgeStake:       h,
		Payout:           payout,
		GuaranteedProfit: profit,
		ROI:              profit / (betStake + h) * 100,
		Negative:         profit < 0,
		Stakes:           StakePlan{LabelBet: betStake, LabelHedge: h},
	}, nil
}

func validateHedge(stake, betDecimal, hedgeDecimal float64) error {
	if _, err := odds.NewOddsValue(betDecimal); err != nil {
		return fmt.Errorf("bet odds: %w", err)
	}
	if _, err := odds.NewOddsValue(hedgeDecimal); err != nil {
		return fmt.Errorf("hedge odds: %w", err)
	}
	if stake <= 0 || math.IsNaN(stake) || math.IsInf(stake, 0) {
		return fmt.Errorf("%w: stake must be positive, got %v", analysis.ErrInvalidStake, stake)
	}
	return nil
}
