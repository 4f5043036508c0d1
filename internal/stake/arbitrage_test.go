package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-calculator/internal/odds"
)

func outcome(t *testing.T, label, source string, american float64) odds.Outcome {
	t.Helper()
	v, err := odds.OddsValueFromQuote(odds.American(american))
	require.NoError(t, err)
	return odds.Outcome{Label: label, Source: source, Odds: v}
}

func TestArbitrageTwoWay(t *testing.T) {
	set := odds.OddsSet{
		outcome(t, "Lakers", "bookA", 150),
		outcome(t, "Celtics", "bookB", 115),
	}

	plan, err := Arbitrage(set, 500)
	require.NoError(t, err)
	require.True(t, plan.Opportunity)

	assert.InDelta(t, 0.8651, plan.Total, 0.0001)
	assert.InDelta(t, -13.49, plan.HoldPercent, 0.01)
	assert.InDelta(t, 231.18, plan.Stakes["Lakers"], 0.01)
	assert.InDelta(t, 268.82, plan.Stakes["Celtics"], 0.01)
	assert.InDelta(t, 577.96, plan.Payout, 0.01)
	assert.InDelta(t, 77.96, plan.GuaranteedProfit, 0.01)
	assert.InDelta(t, 15.59, plan.ROI, 0.01)

	require.Len(t, plan.Legs, 2)
	assert.Equal(t, "bookA", plan.Legs[0].Source)
	for _, leg := range plan.Legs {
		assert.InDelta(t, plan.Payout, leg.Payout, 1e-9)
	}
}

func TestArbitrageNoOpportunity(t *testing.T) {
	set := odds.OddsSet{
		{Label: "Over", Odds: 1.9},
		{Label: "Under", Odds: 1.9},
	}

	plan, err := Arbitrage(set, 500)
	require.NoError(t, err)

	assert.False(t, plan.Opportunity)
	assert.InDelta(t, 1.0526, plan.Total, 0.0001)
	assert.InDelta(t, 5.26, plan.HoldPercent, 0.01)
	assert.Nil(t, plan.Stakes)
	assert.Empty(t, plan.Legs)
	assert.Zero(t, plan.GuaranteedProfit)
	assert.Len(t, plan.Implied, 2)
}

func TestArbitrageCrossBookUsesBestPrice(t *testing.T) {
	set := odds.OddsSet{
		{Label: "Home", Source: "bookA", Odds: 2.05},
		{Label: "Away", Source: "bookA", Odds: 1.85},
		{Label: "Home", Source: "bookB", Odds: 1.95},
		{Label: "Away", Source: "bookB", Odds: 2.02},
	}

	plan, err := Arbitrage(set, 1000)
	require.NoError(t, err)
	require.True(t, plan.Opportunity)
	require.Len(t, plan.Legs, 2)

	assert.Equal(t, "bookA", plan.Legs[0].Source)
	assert.Equal(t, "bookB", plan.Legs[1].Source)
	assert.InDelta(t, 1/2.05+1/2.02, plan.Total, 1e-12)
	assert.InDelta(t, 1000.0, plan.Stakes.Total(), 1e-9)
}

func TestArbitrageInvalid(t *testing.T) {
	tests := []struct {
		name     string
		set      odds.OddsSet
		bankroll float64
		want     error
	}{
		{"Zero bankroll", odds.OddsSet{{Label: "a", Odds: 2.1}, {Label: "b", Odds: 2.1}}, 0, ErrInvalidBankroll},
		{"Single outcome", odds.OddsSet{{Label: "a", Odds: 2.1}}, 100, odds.ErrInvalidMarket},
		{"Invalid odds", odds.OddsSet{{Label: "a", Odds: 1.0}, {Label: "b", Odds: 2.1}}, 100, odds.ErrInvalidOdds},
		{"One label across books", odds.OddsSet{{Label: "a", Source: "x", Odds: 2.1}, {Label: "a", Source: "y", Odds: 2.2}}, 100, odds.ErrInvalidMarket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Arbitrage(tt.set, tt.bankroll)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Whenever total < 1 every leg pays the same and the stakes use the whole bankroll;
// whenever total >= 1 no stakes are produced.
func TestArbitrageProperties(t *testing.T) {
	prices := []float64{1.3, 1.8, 2.0, 2.2, 2.6, 3.4, 4.5, 7.0, 11.0}
	bankrolls := []float64{1, 100, 2500}

	for _, a := range prices {
		for _, b := range prices {
			for _, c := range prices {
				set := odds.OddsSet{
					{Label: "one", Odds: odds.OddsValue(a)},
					{Label: "two", Odds: odds.OddsValue(b)},
					{Label: "three", Odds: odds.OddsValue(c)},
				}
				total := 1/a + 1/b + 1/c

				for _, bankroll := range bankrolls {
					plan, err := Arbitrage(set, bankroll)
					require.NoError(t, err)

					if total >= 1 {
						assert.False(t, plan.Opportunity, "a=%v b=%v c=%v", a, b, c)
						assert.Nil(t, plan.Stakes)
						continue
					}

					require.True(t, plan.Opportunity, "a=%v b=%v c=%v", a, b, c)
					assert.InDelta(t, bankroll, plan.Stakes.Total(), 1e-9*bankroll)
					for _, leg := range plan.Legs {
						assert.InDelta(t, plan.Payout, leg.Stake*leg.Odds.Decimal(), 1e-9*bankroll)
					}
					assert.Greater(t, plan.GuaranteedProfit, 0.0)
				}
			}
		}
	}
}
