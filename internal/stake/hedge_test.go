package stake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
)

func TestHedge(t *testing.T) {
	plan, err := Hedge(HedgeParams{FreeStake: 50, FreeDecimal: 3.0, HedgeDecimal: 1.5556})
	require.NoError(t, err)

	assert.InDelta(t, 64.29, plan.HedgeStake, 0.01)
	assert.InDelta(t, 35.71, plan.GuaranteedProfit, 0.01)
	assert.InDelta(t, 71.4, plan.ConversionRate, 0.1)
	assert.InDelta(t, plan.NetIfFreeWins, plan.NetIfHedgeWins, 1e-9)
	assert.False(t, plan.Negative)
	assert.Equal(t, 50.0, plan.Stakes[LabelFree])
	assert.Equal(t, plan.HedgeStake, plan.Stakes[LabelHedge])
}

func TestHedgeEqualizesBranches(t *testing.T) {
	prices := []float64{1.2, 1.5556, 1.909, 2.0, 2.5, 3.0, 5.5, 10.0}
	stakes := []float64{5, 50, 500}

	for _, free := range prices {
		for _, hedge := range prices {
			for _, f := range stakes {
				plan, err := Hedge(HedgeParams{FreeStake: f, FreeDecimal: free, HedgeDecimal: hedge})
				require.NoError(t, err)

				freeWins := f*(free-1) - plan.HedgeStake
				hedgeWins := plan.HedgeStake * (hedge - 1)
				assert.InDelta(t, freeWins, hedgeWins, 1e-9*f, "free=%v hedge=%v", free, hedge)
				assert.InDelta(t, hedgeWins, plan.GuaranteedProfit, 1e-9*f)
			}
		}
	}
}

func TestHedgeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		params HedgeParams
		want   error
	}{
		{"Bad free odds", HedgeParams{FreeStake: 50, FreeDecimal: 1.0, HedgeDecimal: 2.0}, odds.ErrInvalidOdds},
		{"Bad hedge odds", HedgeParams{FreeStake: 50, FreeDecimal: 3.0, HedgeDecimal: 0.5}, odds.ErrInvalidOdds},
		{"Zero free stake", HedgeParams{FreeStake: 0, FreeDecimal: 3.0, HedgeDecimal: 1.5}, analysis.ErrInvalidStake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Hedge(tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCashHedge(t *testing.T) {
	t.Run("Line moved in our favour", func(t *testing.T) {
		// $100 on +200, opposite side now +150
		plan, err := CashHedge(100, 3.0, 2.5)
		require.NoError(t, err)

		assert.InDelta(t, 120.0, plan.HedgeStake, 1e-9)
		assert.InDelta(t, 300.0, plan.Payout, 1e-9)
		assert.InDelta(t, 80.0, plan.GuaranteedProfit, 1e-9)
		assert.InDelta(t, 80.0/220.0*100, plan.ROI, 1e-9)
		assert.False(t, plan.Negative)
		assert.InDelta(t, plan.Payout, plan.HedgeStake*2.5, 1e-9)
	})

	t.Run("Standard vig both sides locks a loss", func(t *testing.T) {
		d := 1.0 + 100.0/110.0
		plan, err := CashHedge(110, d, d)
		require.NoError(t, err)

		assert.InDelta(t, 110.0, plan.HedgeStake, 1e-9)
		assert.InDelta(t, -10.0, plan.GuaranteedProfit, 1e-9)
		assert.True(t, plan.Negative)
	})

	t.Run("Invalid stake", func(t *testing.T) {
		_, err := CashHedge(-1, 2.0, 2.0)
		assert.ErrorIs(t, err, analysis.ErrInvalidStake)
	})
}
