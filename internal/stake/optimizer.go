package stake

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"edge-calculator/internal/odds"
)

// Mode selects how the optimizer sizes stakes.
type Mode string

const (
	ModeArbitrage  Mode = "arbitrage"
	ModeHedge      Mode = "hedge"
	ModePositiveEV Mode = "positive_ev"
)

// ParseMode accepts the mode names case-insensitively, with "-" or "_".
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch m {
	case ModeArbitrage, ModeHedge, ModePositiveEV:
		return m, nil
	case "arb":
		return ModeArbitrage, nil
	case "ev", "positiveev", "+ev":
		return ModePositiveEV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// StakePlan maps outcome label to the amount to stake on it.
type StakePlan map[string]float64

// Total is the sum of all stakes.
func (p StakePlan) Total() float64 {
	var total float64
	for _, s := range p {
		total += s
	}
	return total
}

// Labels returns the plan's labels in sorted order.
func (p StakePlan) Labels() []string {
	labels := make([]string, 0, len(p))
	for l := range p {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Request is one optimizer call. Only the inputs for the selected mode are read.
type Request struct {
	Mode     Mode
	Bankroll float64

	// ModeArbitrage
	Outcomes odds.OddsSet

	// ModeHedge
	Hedge HedgeParams

	// ModePositiveEV
	Legs          []EVLeg
	KellyFraction float64 // 0 selects DefaultKellyFraction
	Allocation    Allocation
}

// Result carries exactly one plan, matching Mode.
type Result struct {
	Mode       Mode            `json:"mode"`
	Arbitrage  *ArbitragePlan  `json:"arbitrage,omitempty"`
	Hedge      *HedgePlan      `json:"hedge,omitempty"`
	PositiveEV *PositiveEVPlan `json:"positive_ev,omitempty"`
}

// Stakes returns the recommended stakes, or nil when the mode found nothing to stake.
func (r Result) Stakes() StakePlan {
	switch {
	case r.Arbitrage != nil:
		return r.Arbitrage.Stakes
	case r.Hedge != nil:
		return r.Hedge.Stakes
	case r.PositiveEV != nil:
		return r.PositiveEV.Stakes
	}
	return nil
}

// Optimize dispatches a request to the solver for its mode.
func Optimize(req Request) (Result, error) {
	res := Result{Mode: req.Mode}

	switch req.Mode {
	case ModeArbitrage:
		plan, err := Arbitrage(req.Outcomes, req.Bankroll)
		if err != nil {
			return Result{}, err
		}
		res.Arbitrage = &plan

	case ModeHedge:
		plan, err := Hedge(req.Hedge)
		if err != nil {
			return Result{}, err
		}
		res.Hedge = &plan

	case ModePositiveEV:
		plan, err := PositiveEV(req.Legs, req.Bankroll, req.KellyFraction, req.Allocation)
		if err != nil {
			return Result{}, err
		}
		res.PositiveEV = &plan

	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}

	return res, nil
}

func validateBankroll(bankroll float64) error {
	if bankroll <= 0 || math.IsNaN(bankroll) || math.IsInf(bankroll, 0) {
		return fmt.Errorf("%w: bankroll must be positive, got %v", ErrInvalidBankroll, bankroll)
	}
	return nil
}
