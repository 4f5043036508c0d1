package odds

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseOdds reads a price as a bettor would type it and reports the format it
// was written in: "+150" and "-110" are American, "5/2" is Fractional, "2.50"
// is Decimal. An unsigned whole number of 100 or more ("150") is read as
// American, anything else unsigned as Decimal.
func ParseOdds(s string) (OddsValue, Format, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("%w: empty price", ErrInvalidOdds)
	}

	format := FormatDecimal
	if strings.Contains(s, "/") {
		format = FormatFractional
	} else {
		d, err := parseNumber(s)
		if err != nil {
			return 0, "", err
		}
		signed := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
		if signed || (d.IsInteger() && d.GreaterThanOrEqual(decimal.NewFromInt(100))) {
			format = FormatAmerican
		}
	}

	q, err := ParseQuote(s, format)
	if err != nil {
		return 0, "", err
	}
	v, err := OddsValueFromQuote(q)
	return v, format, err
}

// ParseQuote reads s as a price in a known format. Fractional prices are
// written "n/d" with whole numbers on both sides.
func ParseQuote(s string, format Format) (Quote, error) {
	s = strings.TrimSpace(s)

	switch format {
	case FormatFractional:
		num, den, ok := strings.Cut(s, "/")
		if !ok {
			return Quote{}, fmt.Errorf("%w: fractional price %q needs a '/'", ErrInvalidOdds, s)
		}
		n, err := parseWhole(num)
		if err != nil {
			return Quote{}, fmt.Errorf("%w: bad fractional numerator %q", ErrInvalidOdds, num)
		}
		d, err := parseWhole(den)
		if err != nil {
			return Quote{}, fmt.Errorf("%w: bad fractional denominator %q", ErrInvalidOdds, den)
		}
		return Fractional(n, d), nil

	case FormatAmerican, FormatDecimal:
		d, err := parseNumber(s)
		if err != nil {
			return Quote{}, err
		}
		return Quote{Format: format, Value: d.InexactFloat64()}, nil
	}

	return Quote{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// parseNumber reads a signed decimal exactly; "+" is accepted as a sign.
// Exponent notation ("1e3") is rejected.
func parseNumber(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidOdds, s)
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidOdds, s)
	}
	return d, nil
}

// parseWhole reads one side of a fraction, which must be an integer that fits in int64.
func parseWhole(s string) (int64, error) {
	d, err := parseNumber(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q is not a whole number in range", ErrInvalidOdds, s)
	}
	return d.IntPart(), nil
}
