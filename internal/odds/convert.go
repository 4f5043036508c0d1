package odds

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Format identifies how a price is quoted.
type Format string

const (
	FormatAmerican   Format = "american"
	FormatDecimal    Format = "decimal"
	FormatFractional Format = "fractional"
)

// ParseFormat maps a user-supplied name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatAmerican:
		return FormatAmerican, nil
	case FormatDecimal:
		return FormatDecimal, nil
	case FormatFractional:
		return FormatFractional, nil
	case "us":
		return FormatAmerican, nil
	case "eu":
		return FormatDecimal, nil
	case "uk":
		return FormatFractional, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Quote is a price in one of the three formats. Value carries American and
// Decimal prices; Fraction carries Fractional prices.
type Quote struct {
	Format   Format    `json:"format"`
	Value    float64   `json:"value,omitempty"`
	Fraction *Fraction `json:"fraction,omitempty"`
}

// American builds an American quote.
func American(a float64) Quote { return Quote{Format: FormatAmerican, Value: a} }

// Decimal builds a Decimal quote.
func Decimal(d float64) Quote { return Quote{Format: FormatDecimal, Value: d} }

// Fractional builds a Fractional quote.
func Fractional(num, den int64) Quote {
	return Quote{Format: FormatFractional, Fraction: &Fraction{Num: num, Den: den}}
}

// String renders the quote the way a bettor would write it: +150, -110, 2.5, 5/2.
func (q Quote) String() string {
	switch q.Format {
	case FormatAmerican:
		s := decimal.NewFromFloat(q.Value).String()
		if q.Value > 0 {
			return "+" + s
		}
		return s
	case FormatFractional:
		if q.Fraction == nil {
			return ""
		}
		return q.Fraction.String()
	default:
		return decimal.NewFromFloat(q.Value).String()
	}
}

// ToDecimal converts a quote to its canonical decimal multiplier.
func ToDecimal(q Quote) (float64, error) {
	var d float64
	switch q.Format {
	case FormatAmerican:
		var err error
		if d, err = AmericanToDecimal(q.Value); err != nil {
			return 0, err
		}
	case FormatFractional:
		if q.Fraction == nil {
			return 0, fmt.Errorf("%w: fractional quote without a fraction", ErrInvalidOdds)
		}
		var err error
		if d, err = q.Fraction.Decimal(); err != nil {
			return 0, err
		}
	case FormatDecimal:
		d = q.Value
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, q.Format)
	}

	if !validDecimal(d) {
		return 0, fmt.Errorf("%w: decimal %v must be greater than 1.0", ErrInvalidOdds, d)
	}
	return d, nil
}

// FromDecimal renders canonical decimal odds in the requested format.
// Results keep full precision; rounding for display is left to callers.
func FromDecimal(d float64, format Format) (Quote, error) {
	if !validDecimal(d) {
		return Quote{}, fmt.Errorf("%w: decimal %v must be greater than 1.0", ErrInvalidOdds, d)
	}

	switch format {
	case FormatAmerican:
		return American(DecimalToAmerican(d)), nil
	case FormatFractional:
		f, err := FractionFromDecimal(d)
		if err != nil {
			return Quote{}, err
		}
		return Quote{Format: FormatFractional, Fraction: &f}, nil
	case FormatDecimal:
		return Decimal(d), nil
	}
	return Quote{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Convert re-expresses a quote in another format.
func Convert(q Quote, to Format) (Quote, error) {
	d, err := ToDecimal(q)
	if err != nil {
		return Quote{}, err
	}
	return FromDecimal(d, to)
}

// AmericanToDecimal converts American odds to decimal odds
// +150 → 2.50, -150 → 1.667
func AmericanToDecimal(american float64) (float64, error) {
	if american == 0 || math.IsNaN(american) || math.IsInf(american, 0) {
		return 0, fmt.Errorf("%w: american odds cannot be %v", ErrInvalidOdds, american)
	}

	var d float64
	if american > 0 {
		// Underdog: profit per 100 staked
		d = 1 + american/100
	} else {
		// Favorite: stake needed to win 100
		d = 1 + 100/math.Abs(american)
	}

	if !validDecimal(d) {
		return 0, fmt.Errorf("%w: american %v gives decimal %v", ErrInvalidOdds, american, d)
	}
	return d, nil
}

// DecimalToAmerican converts valid decimal odds to American odds.
// 2.0 sits on the +100/-100 boundary and is reported as +100.
func DecimalToAmerican(d float64) float64 {
	if d >= 2 {
		return (d - 1) * 100
	}
	return -100 / (d - 1)
}

// ImpliedProbability is the probability a price implies before any margin is removed.
// Example: 2.5 → 0.4, 1.667 → 0.6
func ImpliedProbability(d float64) float64 {
	return 1 / d
}

func validDecimal(d float64) bool {
	return d > 1 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
