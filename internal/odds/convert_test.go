package odds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		expected float64
		delta    float64
	}{
		{"Even money +100", 100, 2.0, 1e-12},
		{"Even money -100", -100, 2.0, 1e-12},
		{"Underdog +150", 150, 2.5, 1e-12},
		{"Favorite -150", -150, 1.6667, 0.0001},
		{"Standard -110", -110, 1.9091, 0.0001},
		{"Big underdog +115", 115, 2.15, 1e-12},
		{"Heavy favorite -180", -180, 1.5556, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AmericanToDecimal(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, result, tt.delta)
		})
	}
}

func TestToDecimalInvalid(t *testing.T) {
	cases := []struct {
		name  string
		quote Quote
	}{
		{"American zero", American(0)},
		{"American NaN", American(math.NaN())},
		{"Fraction zero denominator", Fractional(5, 0)},
		{"Fraction negative denominator", Fractional(5, -2)},
		{"Fraction negative numerator", Fractional(-1, 2)},
		{"Fraction zero numerator", Fractional(0, 1)},
		{"Decimal exactly one", Decimal(1.0)},
		{"Decimal below one", Decimal(0.5)},
		{"Decimal infinite", Decimal(math.Inf(1))},
		{"Fractional without fraction", Quote{Format: FormatFractional}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToDecimal(tc.quote)
			assert.ErrorIs(t, err, ErrInvalidOdds)
		})
	}

	_, err := ToDecimal(Quote{Format: "moneyline", Value: 2})
	assert.Error(t, err)
}

func TestFromDecimal(t *testing.T) {
	t.Run("American", func(t *testing.T) {
		tests := []struct {
			decimal  float64
			expected float64
		}{
			{2.5, 150},
			{1.5, -200},
			{2.0, 100},
			{3.0, 200},
			{1.25, -400},
		}
		for _, tt := range tests {
			q, err := FromDecimal(tt.decimal, FormatAmerican)
			require.NoError(t, err)
			assert.Equal(t, FormatAmerican, q.Format)
			assert.InDelta(t, tt.expected, q.Value, 1e-9, "decimal %v", tt.decimal)
		}
	})

	t.Run("Fractional", func(t *testing.T) {
		tests := []struct {
			decimal  float64
			expected Fraction
		}{
			{2.5, Fraction{3, 2}},
			{3.5, Fraction{5, 2}},
			{2.0, Fraction{1, 1}},
			{1 + 100.0/110.0, Fraction{10, 11}},
			{2.15, Fraction{23, 20}},
			{1 + 100.0/180.0, Fraction{5, 9}},
			{101, Fraction{100, 1}},
			// Denominators past the bettor-friendly range still come back exact.
			{1 + 1.0/3000, Fraction{1, 3000}},
			{1 + 123457.0/1000003, Fraction{123457, 1000003}},
		}
		for _, tt := range tests {
			q, err := FromDecimal(tt.decimal, FormatFractional)
			require.NoError(t, err)
			require.NotNil(t, q.Fraction)
			assert.Equal(t, tt.expected, *q.Fraction, "decimal %v", tt.decimal)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, d := range []float64{1.0, 0.99, 0, -2, math.NaN()} {
			for _, f := range []Format{FormatAmerican, FormatDecimal, FormatFractional} {
				_, err := FromDecimal(d, f)
				assert.ErrorIs(t, err, ErrInvalidOdds, "decimal %v format %s", d, f)
			}
		}
	})
}

// decimalGrid covers short favorites through long shots, including awkward
// values with no small fractional form.
func decimalGrid() []float64 {
	grid := []float64{1.0001, 1.01, 1.0909090909, 1.2345678901, 1.5, 1.909090909090909, 1.95, 1.99999, 2.0, 2.00001, 2.15, 2.5, 3.3333333, 7.77, 15, 101, 1001}
	for d := 1.05; d < 20; d += 0.37 {
		grid = append(grid, d)
	}
	return grid
}

func TestRoundTripAmerican(t *testing.T) {
	for _, d := range decimalGrid() {
		q, err := FromDecimal(d, FormatAmerican)
		require.NoError(t, err)
		back, err := ToDecimal(q)
		require.NoError(t, err)
		assert.InDelta(t, d, back, 1e-9*d, "decimal %v via american %v", d, q.Value)
	}
}

func TestRoundTripFractional(t *testing.T) {
	for _, d := range decimalGrid() {
		q, err := FromDecimal(d, FormatFractional)
		require.NoError(t, err)
		back, err := ToDecimal(q)
		require.NoError(t, err)
		assert.InDelta(t, d, back, 1e-9*d, "decimal %v via fraction %s", d, q.Fraction)
	}
}

func TestImpliedProbabilityBounds(t *testing.T) {
	for _, d := range decimalGrid() {
		p := ImpliedProbability(d)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
}

func TestImpliedFromAmerican(t *testing.T) {
	tests := []struct {
		name     string
		odds     float64
		expected float64
	}{
		{"Even money +100", 100, 0.5},
		{"Even money -100", -100, 0.5},
		{"Favorite -150", -150, 0.6},
		{"Underdog +150", 150, 0.4},
		{"Heavy favorite -300", -300, 0.75},
		{"Big underdog +300", 300, 0.25},
		{"Standard -110", -110, 0.5238},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := AmericanToDecimal(tt.odds)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, ImpliedProbability(d), 0.001)
		})
	}
}

func TestConvert(t *testing.T) {
	q, err := Convert(American(150), FormatFractional)
	require.NoError(t, err)
	assert.Equal(t, "3/2", q.String())

	q, err = Convert(Fractional(10, 11), FormatAmerican)
	require.NoError(t, err)
	assert.InDelta(t, -110, q.Value, 1e-9)

	q, err = Convert(American(-150), FormatDecimal)
	require.NoError(t, err)
	assert.InDelta(t, 1.6667, q.Value, 0.0001)

	q, err = Convert(Fractional(123457, 1000003), FormatFractional)
	require.NoError(t, err)
	assert.Equal(t, "123457/1000003", q.String())

	_, err = Convert(American(0), FormatDecimal)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, "+150", American(150).String())
	assert.Equal(t, "-110", American(-110).String())
	assert.Equal(t, "2.5", Decimal(2.5).String())
	assert.Equal(t, "5/2", Fractional(5, 2).String())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"american": FormatAmerican, "us": FormatAmerican,
		"decimal": FormatDecimal, "eu": FormatDecimal,
		"fractional": FormatFractional, "uk": FormatFractional,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := ParseFormat(" Decimal ")
	require.NoError(t, err)
	assert.Equal(t, FormatDecimal, got)

	_, err = ParseFormat("hongkong")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
