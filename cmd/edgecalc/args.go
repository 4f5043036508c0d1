package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
	"edge-calculator/internal/stake"
)

// readPrice parses a price, detecting its format unless from names one.
func readPrice(s, from string) (float64, error) {
	if from == "" {
		v, _, err := odds.ParseOdds(s)
		if err != nil {
			return 0, err
		}
		return v.Decimal(), nil
	}

	format, err := odds.ParseFormat(from)
	if err != nil {
		return 0, err
	}
	q, err := odds.ParseQuote(s, format)
	if err != nil {
		return 0, err
	}
	return odds.ToDecimal(q)
}

// parseOutcome reads "label=odds" or "label=odds@source", e.g. "Lakers=+150@bookA".
func parseOutcome(arg string) (odds.Outcome, error) {
	label, rest, ok := strings.Cut(arg, "=")
	if !ok || label == "" {
		return odds.Outcome{}, fmt.Errorf("outcome %q: want label=odds[@source]", arg)
	}

	price, source := rest, ""
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		price, source = rest[:i], rest[i+1:]
	}

	v, _, err := odds.ParseOdds(price)
	if err != nil {
		return odds.Outcome{}, fmt.Errorf("outcome %q: %w", arg, err)
	}
	return odds.Outcome{Label: label, Source: source, Odds: v}, nil
}

func parseOutcomes(args []string) (odds.OddsSet, error) {
	set := make(odds.OddsSet, 0, len(args))
	for _, arg := range args {
		o, err := parseOutcome(arg)
		if err != nil {
			return nil, err
		}
		set = append(set, o)
	}
	return set, nil
}

// parseEVLeg reads "label=odds:probability", e.g. "Over=1.95:0.54".
func parseEVLeg(arg string) (stake.EVLeg, error) {
	price, raw, ok := cutLast(arg, ":")
	if !ok {
		return stake.EVLeg{}, fmt.Errorf("leg %q: want label=odds:probability", arg)
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return stake.EVLeg{}, fmt.Errorf("leg %q: bad probability: %w", arg, analysis.ErrInvalidProbability)
	}
	o, err := parseOutcome(price)
	if err != nil {
		return stake.EVLeg{}, err
	}
	return stake.EVLeg{Outcome: o, FairProbability: p}, nil
}

// parseComboLeg reads "odds:probability" with an optional "label=" prefix.
func parseComboLeg(arg string) (analysis.Leg, error) {
	price, raw, ok := cutLast(arg, ":")
	if !ok {
		return analysis.Leg{}, fmt.Errorf("leg %q: want [label=]odds:probability", arg)
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return analysis.Leg{}, fmt.Errorf("leg %q: bad probability: %w", arg, analysis.ErrInvalidProbability)
	}

	var label string
	if l, rest, ok := strings.Cut(price, "="); ok {
		label, price = l, rest
	}
	d, err := readPrice(price, "")
	if err != nil {
		return analysis.Leg{}, fmt.Errorf("leg %q: %w", arg, err)
	}
	return analysis.Leg{Label: label, DecimalOdds: d, FairProbability: p}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// render prints v as JSON with --json, otherwise through text.
func (a *app) render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}
