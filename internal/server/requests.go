package server

import (
	"fmt"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
	"edge-calculator/internal/stake"
)

// Prices arrive as strings ("+150", "5/2", "2.50") and are read with odds.ParseOdds.

type outcomeInput struct {
	Label  string `json:"label" validate:"required"`
	Source string `json:"source"`
	Odds   string `json:"odds" validate:"required"`
}

func toOddsSet(in []outcomeInput) (odds.OddsSet, error) {
	set := make(odds.OddsSet, 0, len(in))
	for i, o := range in {
		v, _, err := odds.ParseOdds(o.Odds)
		if err != nil {
			return nil, fmt.Errorf("outcome %d: %w", i, err)
		}
		set = append(set, odds.Outcome{Label: o.Label, Source: o.Source, Odds: v})
	}
	return set, nil
}

func parsePrice(field, s string) (float64, error) {
	v, _, err := odds.ParseOdds(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v.Decimal(), nil
}

type convertRequest struct {
	Odds string `json:"odds" validate:"required"`
	From string `json:"from"` // empty to detect from the text
	To   string `json:"to" validate:"required"`
}

type convertResponse struct {
	Input              odds.Quote `json:"input"`
	Decimal            float64    `json:"decimal"`
	ImpliedProbability float64    `json:"implied_probability"`
	Result             odds.Quote `json:"result"`
	Display            string     `json:"display"`
}

type devigRequest struct {
	Outcomes []outcomeInput `json:"outcomes" validate:"required,min=2,dive"`
	Method   string         `json:"method" validate:"omitempty,oneof=multiplicative additive power"`
}

type devigResponse struct {
	Method     odds.Method                  `json:"method"`
	Fair       odds.ProbabilityDistribution `json:"fair"`
	Implied    odds.ProbabilityDistribution `json:"implied"`
	VigPercent float64                      `json:"vig_percent"`
}

type consensusRequest struct {
	Books []struct {
		Weight   *float64       `json:"weight"`
		Outcomes []outcomeInput `json:"outcomes" validate:"required,min=2,dive"`
	} `json:"books" validate:"required,min=1,dive"`
}

type evaluateRequest struct {
	Stake           float64  `json:"stake" validate:"required"`
	Odds            string   `json:"odds" validate:"required"`
	FairProbability *float64 `json:"fair_probability" validate:"required"`
}

type hedgeInput struct {
	FreeStake float64 `json:"free_stake" validate:"required"`
	FreeOdds  string  `json:"free_odds" validate:"required"`
	HedgeOdds string  `json:"hedge_odds" validate:"required"`
}

type evLegInput struct {
	outcomeInput
	FairProbability *float64 `json:"fair_probability" validate:"required"`
}

type optimizeRequest struct {
	Mode     string  `json:"mode" validate:"required"`
	EventID  string  `json:"event_id"`
	Bankroll float64 `json:"bankroll"` // 0 uses the configured default

	Outcomes []outcomeInput `json:"outcomes" validate:"omitempty,dive"`
	Hedge    *hedgeInput    `json:"hedge"`

	Legs          []evLegInput `json:"legs" validate:"omitempty,dive"`
	KellyFraction float64      `json:"kelly_fraction"` // 0 uses the configured default
	Allocation    string       `json:"allocation"`
}

// toRequest builds a stake.Request, filling bankroll and Kelly defaults.
func (req optimizeRequest) toRequest(defaultBankroll, defaultKelly float64) (stake.Request, error) {
	mode, err := stake.ParseMode(req.Mode)
	if err != nil {
		return stake.Request{}, err
	}

	out := stake.Request{Mode: mode, Bankroll: req.Bankroll, KellyFraction: req.KellyFraction}
	if out.Bankroll == 0 {
		out.Bankroll = defaultBankroll
	}
	if out.KellyFraction == 0 {
		out.KellyFraction = defaultKelly
	}

	switch mode {
	case stake.ModeArbitrage:
		if out.Outcomes, err = toOddsSet(req.Outcomes); err != nil {
			return stake.Request{}, err
		}

	case stake.ModeHedge:
		if req.Hedge == nil {
			return stake.Request{}, &requestError{msg: "invalid request: hedge is required for hedge mode"}
		}
		out.Hedge.FreeStake = req.Hedge.FreeStake
		if out.Hedge.FreeDecimal, err = parsePrice("free_odds", req.Hedge.FreeOdds); err != nil {
			return stake.Request{}, err
		}
		if out.Hedge.HedgeDecimal, err = parsePrice("hedge_odds", req.Hedge.HedgeOdds); err != nil {
			return stake.Request{}, err
		}

	case stake.ModePositiveEV:
		if out.Allocation, err = stake.ParseAllocation(req.Allocation); err != nil {
			return stake.Request{}, err
		}
		for i, l := range req.Legs {
			d, err := parsePrice(fmt.Sprintf("legs[%d].odds", i), l.Odds)
			if err != nil {
				return stake.Request{}, err
			}
			out.Legs = append(out.Legs, stake.EVLeg{
				Outcome:         odds.Outcome{Label: l.Label, Source: l.Source, Odds: odds.OddsValue(d)},
				FairProbability: *l.FairProbability,
			})
		}
	}

	return out, nil
}

type comboLegInput struct {
	Label           string   `json:"label"`
	Odds            string   `json:"odds" validate:"required"`
	FairProbability *float64 `json:"fair_probability" validate:"required"`
}

type combineRequest struct {
	Legs             []comboLegInput `json:"legs" validate:"required,dive"`
	Stake            float64         `json:"stake" validate:"required"`
	JointProbability *float64        `json:"joint_probability"`
}

func (req combineRequest) legs() ([]analysis.Leg, error) {
	legs := make([]analysis.Leg, 0, len(req.Legs))
	for i, l := range req.Legs {
		d, err := parsePrice(fmt.Sprintf("legs[%d].odds", i), l.Odds)
		if err != nil {
			return nil, err
		}
		legs = append(legs, analysis.Leg{Label: l.Label, DecimalOdds: d, FairProbability: *l.FairProbability})
	}
	return legs, nil
}

type middleRequest struct {
	Market     string   `json:"market" validate:"omitempty,oneof=spread total"`
	AboveLine  *float64 `json:"above_line" validate:"required"`
	BelowLine  *float64 `json:"below_line" validate:"required"`
	AboveOdds  string   `json:"above_odds" validate:"required"`
	BelowOdds  string   `json:"below_odds" validate:"required"`
	AboveStake float64  `json:"above_stake" validate:"required"`
	BelowStake float64  `json:"below_stake" validate:"required"`
	StdDev     float64  `json:"std_dev"` // 0 picks the default for Market

	Mean                 *float64 `json:"mean"`
	AboveFairProbability float64  `json:"above_fair_probability"`
}

func (req middleRequest) toInput() (analysis.MiddleInput, error) {
	in := analysis.MiddleInput{
		AboveLine:            *req.AboveLine,
		BelowLine:            *req.BelowLine,
		AboveStake:           req.AboveStake,
		BelowStake:           req.BelowStake,
		StdDev:               req.StdDev,
		Mean:                 req.Mean,
		AboveFairProbability: req.AboveFairProbability,
	}
	if in.StdDev == 0 {
		in.StdDev = analysis.DefaultSpreadStdDev
		if req.Market == "total" {
			in.StdDev = analysis.DefaultTotalStdDev
		}
	}

	var err error
	if in.AboveOdds, err = parsePrice("above_odds", req.AboveOdds); err != nil {
		return analysis.MiddleInput{}, err
	}
	if in.BelowOdds, err = parsePrice("below_odds", req.BelowOdds); err != nil {
		return analysis.MiddleInput{}, err
	}
	return in, nil
}

type positionRequest struct {
	EventID string  `json:"event_id" validate:"required"`
	Label   string  `json:"label" validate:"required"`
	Source  string  `json:"source"`
	Odds    string  `json:"odds" validate:"required"`
	Stake   float64 `json:"stake" validate:"required"`
	FreeBet bool    `json:"free_bet"`
}

type updatePositionRequest struct {
	Stake float64 `json:"stake" validate:"required"`
}

type findHedgesRequest struct {
	EventID  string         `json:"event_id" validate:"required"`
	Outcomes []outcomeInput `json:"outcomes" validate:"required,min=2,dive"`
}
