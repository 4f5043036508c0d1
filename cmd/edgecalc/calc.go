package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
	"edge-calculator/internal/stake"
)

func (a *app) convertCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert <odds>",
		Short: "Convert a price between American, decimal and fractional",
		Example: `  edgecalc convert +150
  edgecalc convert 5/2 --to american
  edgecalc convert 150 --from decimal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readPrice(args[0], from)
			if err != nil {
				return err
			}
			v, err := odds.NewOddsValue(d)
			if err != nil {
				return err
			}

			formats := []odds.Format{odds.FormatDecimal, odds.FormatAmerican, odds.FormatFractional}
			if to != "" {
				f, err := odds.ParseFormat(to)
				if err != nil {
					return err
				}
				formats = []odds.Format{f}
			}

			type result struct {
				Decimal            float64                    `json:"decimal"`
				ImpliedProbability float64                    `json:"implied_probability"`
				Quotes             map[odds.Format]odds.Quote `json:"quotes"`
			}
			res := result{Decimal: v.Decimal(), ImpliedProbability: v.ImpliedProbability(), Quotes: map[odds.Format]odds.Quote{}}
			for _, f := range formats {
				q, err := v.Quote(f)
				if err != nil {
					return err
				}
				res.Quotes[f] = q
			}

			return a.render(cmd, res, func(w io.Writer) {
				for _, f := range formats {
					fmt.Fprintf(w, "%-12s %s\n", f, res.Quotes[f])
				}
				fmt.Fprintf(w, "%-12s %.4f%%\n", "implied", res.ImpliedProbability*100)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input format (american, decimal, fractional); detected when empty")
	cmd.Flags().StringVar(&to, "to", "", "Output format; all formats when empty")
	return cmd
}

func (a *app) devigCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:     "devig <label=odds>...",
		Short:   "Remove the bookmaker margin from a market",
		Example: `  edgecalc devig Lakers=-110 Celtics=-110 --method power`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseOutcomes(args)
			if err != nil {
				return err
			}
			fair, vig, err := odds.DevigWith(odds.Method(method), set)
			if err != nil {
				return err
			}

			res := map[string]any{"method": method, "fair": fair, "vig_percent": vig}
			return a.render(cmd, res, func(w io.Writer) {
				labels := make([]string, 0, len(fair))
				for l := range fair {
					labels = append(labels, l)
				}
				sort.Strings(labels)
				for _, l := range labels {
					fmt.Fprintf(w, "%-16s fair %.4f%%  fair odds %.4f\n", l, fair[l]*100, 1/fair[l])
				}
				fmt.Fprintf(w, "vig %.4f%% (%s)\n", vig, method)
			})
		},
	}
	cmd.Flags().StringVar(&method, "method", string(odds.MethodMultiplicative), "Devig method: multiplicative, additive or power")
	return cmd
}

func (a *app) evCmd() *cobra.Command {
	var (
		stakeAmt float64
		price    string
		prob     float64
	)

	cmd := &cobra.Command{
		Use:     "ev",
		Short:   "Expected value of a single bet",
		Example: `  edgecalc ev --odds +150 --prob 0.45 --stake 100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readPrice(price, "")
			if err != nil {
				return err
			}
			res, err := analysis.Evaluate(stakeAmt, d, prob)
			if err != nil {
				return err
			}

			return a.render(cmd, res, func(w io.Writer) {
				fmt.Fprintf(w, "profit if win   $%.2f\n", res.ProfitIfWin)
				fmt.Fprintf(w, "expected value  $%.4f\n", res.ExpectedValue)
				fmt.Fprintf(w, "ev              %.4f%%\n", res.EVPercent)
				if fo, err := analysis.FairOdds(prob); err == nil {
					fmt.Fprintf(w, "fair odds       %.4f\n", fo)
				}
			})
		},
	}
	cmd.Flags().Float64Var(&stakeAmt, "stake", 100, "Stake")
	cmd.Flags().StringVar(&price, "odds", "", "Offered price")
	cmd.Flags().Float64Var(&prob, "prob", 0, "Fair win probability")
	_ = cmd.MarkFlagRequired("odds")
	_ = cmd.MarkFlagRequired("prob")
	return cmd
}

func (a *app) arbCmd() *cobra.Command {
	var bankroll float64

	cmd := &cobra.Command{
		Use:     "arb <label=odds[@source]>...",
		Short:   "Size an arbitrage across outcomes, taking the best price per label",
		Example: `  edgecalc arb Lakers=+150@bookA Celtics=+115@bookB --bankroll 500`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseOutcomes(args)
			if err != nil {
				return err
			}
			res, err := stake.Optimize(stake.Request{
				Mode:     stake.ModeArbitrage,
				Bankroll: a.bankroll(bankroll),
				Outcomes: set,
			})
			if err != nil {
				return err
			}
			plan := res.Arbitrage

			return a.render(cmd, plan, func(w io.Writer) {
				if !plan.Opportunity {
					fmt.Fprintf(w, "no arbitrage: total implied %.4f (hold %.2f%%)\n", plan.Total, plan.HoldPercent)
					return
				}
				for _, l := range plan.Legs {
					fmt.Fprintf(w, "%-16s %-10s %.4f (%+.0f)  stake $%.2f\n", l.Label, l.Source, l.Odds.Decimal(), l.Odds.American(), l.Stake)
				}
				fmt.Fprintf(w, "payout $%.2f  profit $%.2f  roi %.2f%%\n", plan.Payout, plan.GuaranteedProfit, plan.ROI)
			})
		},
	}
	cmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Total to stake; the configured default when 0")
	return cmd
}

func (a *app) hedgeCmd() *cobra.Command {
	var (
		stakeAmt   float64
		price      string
		hedgePrice string
		cash       bool
	)

	cmd := &cobra.Command{
		Use:   "hedge",
		Short: "Size the opposing bet that locks in a free bet or cash bet",
		Example: `  edgecalc hedge --stake 50 --odds +200 --hedge-odds 1.5556
  edgecalc hedge --stake 100 --odds 3.0 --hedge-odds 2.5 --cash`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readPrice(price, "")
			if err != nil {
				return err
			}
			dh, err := readPrice(hedgePrice, "")
			if err != nil {
				return err
			}

			if cash {
				plan, err := stake.CashHedge(stakeAmt, d, dh)
				if err != nil {
					return err
				}
				return a.render(cmd, plan, func(w io.Writer) {
					fmt.Fprintf(w, "hedge stake  $%.2f\n", plan.HedgeStake)
					fmt.Fprintf(w, "payout       $%.2f\n", plan.Payout)
					fmt.Fprintf(w, "profit       $%.2f (%.2f%%)\n", plan.GuaranteedProfit, plan.ROI)
				})
			}

			res, err := stake.Optimize(stake.Request{
				Mode:  stake.ModeHedge,
				Hedge: stake.HedgeParams{FreeStake: stakeAmt, FreeDecimal: d, HedgeDecimal: dh},
			})
			if err != nil {
				return err
			}
			plan := res.Hedge
			return a.render(cmd, plan, func(w io.Writer) {
				for _, l := range plan.Stakes.Labels() {
					fmt.Fprintf(w, "%-12s $%.2f\n", l, plan.Stakes[l])
				}
				fmt.Fprintf(w, "profit       $%.2f\n", plan.GuaranteedProfit)
				fmt.Fprintf(w, "conversion   %.2f%%\n", plan.ConversionRate)
			})
		},
	}
	cmd.Flags().Float64Var(&stakeAmt, "stake", 0, "Stake of the bet being hedged")
	cmd.Flags().StringVar(&price, "odds", "", "Price of the bet being hedged")
	cmd.Flags().StringVar(&hedgePrice, "hedge-odds", "", "Price of the opposing outcome")
	cmd.Flags().BoolVar(&cash, "cash", false, "Hedge a cash bet instead of a free bet")
	_ = cmd.MarkFlagRequired("stake")
	_ = cmd.MarkFlagRequired("odds")
	_ = cmd.MarkFlagRequired("hedge-odds")
	return cmd
}

func (a *app) kellyCmd() *cobra.Command {
	var (
		bankroll   float64
		fraction   float64
		allocation string
	)

	cmd := &cobra.Command{
		Use:   "kelly <label=odds:probability>...",
		Short: "Size +EV bets with fractional Kelly",
		Example: `  edgecalc kelly Over=1.95:0.54 --allocation independent
  edgecalc kelly Home=2.4:0.45 Away=1.8:0.58 --allocation partition --fraction 0.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alloc, err := stake.ParseAllocation(allocation)
			if err != nil {
				return err
			}
			legs := make([]stake.EVLeg, 0, len(args))
			for _, arg := range args {
				leg, err := parseEVLeg(arg)
				if err != nil {
					return err
				}
				legs = append(legs, leg)
			}
			if fraction == 0 {
				fraction = a.cfg.KellyFraction
			}

			res, err := stake.Optimize(stake.Request{
				Mode:          stake.ModePositiveEV,
				Bankroll:      a.bankroll(bankroll),
				Legs:          legs,
				KellyFraction: fraction,
				Allocation:    alloc,
			})
			if err != nil {
				return err
			}
			plan := res.PositiveEV

			return a.render(cmd, plan, func(w io.Writer) {
				for _, l := range plan.Legs {
					fmt.Fprintf(w, "%-16s ev %+.2f%%  kelly %.4f  stake $%.2f\n", l.Label, l.EV.EVPercent, l.Kelly, l.Stake)
				}
				if plan.NoPositiveEV {
					fmt.Fprintln(w, "no +EV legs")
					return
				}
				fmt.Fprintf(w, "total $%.2f  expected profit $%.2f\n", plan.TotalStake, plan.ExpectedProfit)
			})
		},
	}
	cmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll; the configured default when 0")
	cmd.Flags().Float64Var(&fraction, "fraction", 0, "Kelly multiplier in (0,1]; the configured default when 0")
	cmd.Flags().StringVar(&allocation, "allocation", "", "How legs share the bankroll: partition or independent")
	_ = cmd.MarkFlagRequired("allocation")
	return cmd
}

func (a *app) comboCmd() *cobra.Command {
	var (
		stakeAmt float64
		joint    float64
	)

	cmd := &cobra.Command{
		Use:     "combo <[label=]odds:probability>...",
		Short:   "Price a parlay from its legs",
		Example: `  edgecalc combo 2.0:0.55 1.8:0.6 --stake 10`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			legs := make([]analysis.Leg, 0, len(args))
			for _, arg := range args {
				leg, err := parseComboLeg(arg)
				if err != nil {
					return err
				}
				legs = append(legs, leg)
			}

			var (
				res analysis.ComboResult
				err error
			)
			if cmd.Flags().Changed("joint") {
				res, err = analysis.CombineJoint(legs, joint, stakeAmt)
			} else {
				res, err = analysis.Combine(legs, stakeAmt)
			}
			if err != nil {
				return err
			}

			return a.render(cmd, res, func(w io.Writer) {
				fmt.Fprintf(w, "combined odds   %.4f\n", res.CombinedDecimal)
				fmt.Fprintf(w, "fair prob       %.4f%%\n", res.CombinedFairProbability*100)
				fmt.Fprintf(w, "expected value  $%.4f (%.2f%%)\n", res.EV.ExpectedValue, res.EV.EVPercent)
				for _, warn := range res.Warnings {
					fmt.Fprintf(w, "warning: %s\n", warn)
				}
			})
		},
	}
	cmd.Flags().Float64Var(&stakeAmt, "stake", 10, "Stake on the combo")
	cmd.Flags().Float64Var(&joint, "joint", 0, "Joint win probability for correlated legs")
	return cmd
}

func (a *app) middleCmd() *cobra.Command {
	var (
		in                   analysis.MiddleInput
		market               string
		aboveOdds, belowOdds string
		mean                 float64
	)

	cmd := &cobra.Command{
		Use:   "middle",
		Short: "Estimate a middle between two spread or total bets",
		Example: `  edgecalc middle --market total --above-line 218.5 --below-line 221.5 \
    --above-odds=-110 --below-odds=-110 --above-stake 110 --below-stake 110 --mean 220`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.AboveOdds, err = readPrice(aboveOdds, ""); err != nil {
				return fmt.Errorf("above odds: %w", err)
			}
			if in.BelowOdds, err = readPrice(belowOdds, ""); err != nil {
				return fmt.Errorf("below odds: %w", err)
			}
			if cmd.Flags().Changed("mean") {
				in.Mean = &mean
			}
			if in.StdDev == 0 {
				in.StdDev = analysis.DefaultSpreadStdDev
				if market == "total" {
					in.StdDev = analysis.DefaultTotalStdDev
				}
			}

			res, err := analysis.EvaluateMiddle(in)
			if err != nil {
				return err
			}

			return a.render(cmd, res, func(w io.Writer) {
				fmt.Fprintf(w, "window          %.1f points around mean %.2f\n", res.Width, res.Mean)
				fmt.Fprintf(w, "middle          %.2f%%  profit $%.2f\n", res.MiddleProbability*100, res.ProfitMiddle)
				fmt.Fprintf(w, "above only      %.2f%%  profit $%.2f\n", res.AboveOnlyProbability*100, res.ProfitAboveOnly)
				fmt.Fprintf(w, "below only      %.2f%%  profit $%.2f\n", res.BelowOnlyProbability*100, res.ProfitBelowOnly)
				fmt.Fprintf(w, "expected profit $%.2f\n", res.ExpectedProfit)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&market, "market", "spread", "spread or total; picks the default std dev")
	f.Float64Var(&in.AboveLine, "above-line", 0, "Line of the bet that wins above it")
	f.Float64Var(&in.BelowLine, "below-line", 0, "Line of the bet that wins below it")
	f.StringVar(&aboveOdds, "above-odds", "", "Price of the above bet")
	f.StringVar(&belowOdds, "below-odds", "", "Price of the below bet")
	f.Float64Var(&in.AboveStake, "above-stake", 100, "Stake on the above bet")
	f.Float64Var(&in.BelowStake, "below-stake", 100, "Stake on the below bet")
	f.Float64Var(&in.StdDev, "std-dev", 0, "Std dev of the result; the market default when 0")
	f.Float64Var(&mean, "mean", 0, "Expected result; inferred from --above-prob when unset")
	f.Float64Var(&in.AboveFairProbability, "above-prob", 0, "Fair probability the above bet wins")
	_ = cmd.MarkFlagRequired("above-line")
	_ = cmd.MarkFlagRequired("below-line")
	_ = cmd.MarkFlagRequired("above-odds")
	_ = cmd.MarkFlagRequired("below-odds")
	return cmd
}

// bankroll returns flag, or the configured default when it is unset.
func (a *app) bankroll(flag float64) float64 {
	if flag == 0 {
		return a.cfg.DefaultBankroll
	}
	return flag
}
