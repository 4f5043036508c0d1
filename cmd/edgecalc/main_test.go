package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-calculator/internal/odds"
	"edge-calculator/internal/stake"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("EDGECALC_LOG_LEVEL", "error")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		label   string
		source  string
		decimal float64
		wantErr bool
	}{
		{"American with source", "Lakers=+150@bookA", "Lakers", "bookA", 2.5, false},
		{"Negative American", "Celtics=-110", "Celtics", "", 1 + 100.0/110.0, false},
		{"Fractional", "Draw=5/2@uk", "Draw", "uk", 3.5, false},
		{"Label with spaces", "Over 218.5=1.91", "Over 218.5", "", 1.91, false},
		{"Missing price", "Lakers", "", "", 0, true},
		{"Bad price", "Lakers=abc", "", "", 0, true},
		{"Empty label", "=2.0", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseOutcome(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, o.Label)
			assert.Equal(t, tt.source, o.Source)
			assert.InDelta(t, tt.decimal, o.Odds.Decimal(), 1e-9)
		})
	}
}

func TestParseLegs(t *testing.T) {
	leg, err := parseEVLeg("Over=1.95:0.54")
	require.NoError(t, err)
	assert.Equal(t, "Over", leg.Label)
	assert.InDelta(t, 1.95, leg.Odds.Decimal(), 1e-12)
	assert.Equal(t, 0.54, leg.FairProbability)

	_, err = parseEVLeg("Over=1.95")
	assert.Error(t, err)

	combo, err := parseComboLeg("5/2:0.3")
	require.NoError(t, err)
	assert.Empty(t, combo.Label)
	assert.InDelta(t, 3.5, combo.DecimalOdds, 1e-9)

	combo, err = parseComboLeg("Home=-200:0.7")
	require.NoError(t, err)
	assert.Equal(t, "Home", combo.Label)
	assert.InDelta(t, 1.5, combo.DecimalOdds, 1e-9)
}

func TestConvertCommand(t *testing.T) {
	out, err := execute(t, "convert", "+150", "--json")
	require.NoError(t, err)

	var res struct {
		Decimal            float64               `json:"decimal"`
		ImpliedProbability float64               `json:"implied_probability"`
		Quotes             map[string]odds.Quote `json:"quotes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2.5, res.Decimal)
	assert.Equal(t, "3/2", res.Quotes["fractional"].String())
	assert.Equal(t, "+150", res.Quotes["american"].String())
	assert.InDelta(t, 0.4, res.ImpliedProbability, 1e-12)

	out, err = execute(t, "convert", "--to", "fractional", "--", "-110")
	require.NoError(t, err)
	assert.Contains(t, out, "10/11")

	_, err = execute(t, "convert", "1.0")
	assert.ErrorIs(t, err, odds.ErrInvalidOdds)
}

func TestDevigCommand(t *testing.T) {
	out, err := execute(t, "devig", "Lakers=-110", "Celtics=-110")
	require.NoError(t, err)
	assert.Contains(t, out, "fair 50.0000%")
	assert.Contains(t, out, "vig 4.7619%")

	_, err = execute(t, "devig", "A=2.1", "B=3.4", "C=3.6", "--method", "shin")
	assert.ErrorIs(t, err, odds.ErrInvalidMarket)
}

func TestArbCommand(t *testing.T) {
	out, err := execute(t, "arb", "Lakers=+150@bookA", "Celtics=+115@bookB", "--bankroll", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "stake $231.18")
	assert.Contains(t, out, "profit $77.96")
	assert.Contains(t, out, "2.5000 (+150)")
	assert.Contains(t, out, "2.1500 (+115)")

	out, err = execute(t, "arb", "Over=1.9", "Under=1.9")
	require.NoError(t, err)
	assert.Contains(t, out, "no arbitrage")
}

func TestHedgeCommand(t *testing.T) {
	out, err := execute(t, "hedge", "--stake", "50", "--odds", "+200", "--hedge-odds", "1.5556", "--json")
	require.NoError(t, err)

	var plan stake.HedgePlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.InDelta(t, 64.29, plan.HedgeStake, 0.01)
	assert.InDelta(t, 35.71, plan.GuaranteedProfit, 0.01)

	out, err = execute(t, "hedge", "--stake", "50", "--odds", "+200", "--hedge-odds", "1.5556")
	require.NoError(t, err)
	assert.Regexp(t, `free\s+\$50\.00\nhedge\s+\$64\.28\n`, out)
	assert.Contains(t, out, "conversion   71.43%")

	out, err = execute(t, "hedge", "--stake", "100", "--odds", "3.0", "--hedge-odds", "2.5", "--cash")
	require.NoError(t, err)
	assert.Contains(t, out, "hedge stake  $120.00")
	assert.Contains(t, out, "profit       $80.00")
}

func TestKellyCommand(t *testing.T) {
	out, err := execute(t, "kelly", "A=2.0:0.55", "--allocation", "independent", "--bankroll", "1000", "--json")
	require.NoError(t, err)

	var plan stake.PositiveEVPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, 0.25, plan.KellyFraction)
	assert.InDelta(t, 25.0, plan.Stakes["A"], 1e-9)

	_, err = execute(t, "kelly", "A=2.0:0.55")
	assert.Error(t, err, "allocation is a required flag")

	_, err = execute(t, "kelly", "A=2.0:0.55", "--allocation", "independent", "--fraction", "1.5")
	assert.ErrorIs(t, err, stake.ErrInvalidKellyFraction)
}

func TestComboCommand(t *testing.T) {
	out, err := execute(t, "combo", "2.0:0.55", "1.8:0.6", "--stake", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "combined odds   3.6000")
	assert.Contains(t, out, "warning:")

	out, err = execute(t, "combo", "2.0:0.55", "1.8:0.6", "--joint", "0.4")
	require.NoError(t, err)
	assert.NotContains(t, out, "warning:")
}

func TestMiddleCommand(t *testing.T) {
	out, err := execute(t, "middle", "--market", "total",
		"--above-line", "218.5", "--below-line", "221.5",
		"--above-odds=-110", "--below-odds=-110",
		"--above-stake", "110", "--below-stake", "110", "--mean", "220")
	require.NoError(t, err)
	assert.Contains(t, out, "middle          7.0")
}
