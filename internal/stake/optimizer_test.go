package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-calculator/internal/odds"
)

func TestOptimize(t *testing.T) {
	t.Run("Arbitrage", func(t *testing.T) {
		res, err := Optimize(Request{
			Mode:     ModeArbitrage,
			Bankroll: 500,
			Outcomes: odds.OddsSet{{Label: "A", Odds: 2.5}, {Label: "B", Odds: 2.15}},
		})
		require.NoError(t, err)
		require.NotNil(t, res.Arbitrage)
		assert.Nil(t, res.Hedge)
		assert.Nil(t, res.PositiveEV)
		assert.InDelta(t, 500.0, res.Stakes().Total(), 1e-9)
	})

	t.Run("No arbitrage returns no stakes", func(t *testing.T) {
		res, err := Optimize(Request{
			Mode:     ModeArbitrage,
			Bankroll: 500,
			Outcomes: odds.OddsSet{{Label: "A", Odds: 1.9}, {Label: "B", Odds: 1.9}},
		})
		require.NoError(t, err)
		assert.False(t, res.Arbitrage.Opportunity)
		assert.Nil(t, res.Stakes())
	})

	t.Run("Hedge", func(t *testing.T) {
		res, err := Optimize(Request{
			Mode:  ModeHedge,
			Hedge: HedgeParams{FreeStake: 50, FreeDecimal: 3.0, HedgeDecimal: 1.5556},
		})
		require.NoError(t, err)
		require.NotNil(t, res.Hedge)
		assert.InDelta(t, 64.29, res.Stakes()[LabelHedge], 0.01)
	})

	t.Run("Positive EV", func(t *testing.T) {
		res, err := Optimize(Request{
			Mode:       ModePositiveEV,
			Bankroll:   1000,
			Legs:       []EVLeg{evLeg("A", 2.0, 0.55)},
			Allocation: AllocateIndependent,
		})
		require.NoError(t, err)
		require.NotNil(t, res.PositiveEV)
		assert.InDelta(t, 25.0, res.Stakes()["A"], 1e-9)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		_, err := Optimize(Request{Mode: "martingale"})
		assert.ErrorIs(t, err, ErrUnknownMode)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"arbitrage", ModeArbitrage},
		{"ARB", ModeArbitrage},
		{"hedge", ModeHedge},
		{"positive-ev", ModePositiveEV},
		{"positive_ev", ModePositiveEV},
		{"ev", ModePositiveEV},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("parlay")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
