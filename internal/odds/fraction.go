package odds

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// maxNiceDenominator bounds the search for a bettor-friendly fraction (5/2, 10/11, 100/30).
	maxNiceDenominator = 1000
	// maxExactDenominator bounds the second pass for prices built from larger fractions (1/3000).
	maxExactDenominator = 10_000_000
	fractionTolerance  = 1e-12
)

// Fraction is a fractional (UK) price: profit Num for every Den staked.
type Fraction struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// Decimal converts n/d to decimal odds 1+n/d.
func (f Fraction) Decimal() (float64, error) {
	if f.Den <= 0 {
		return 0, fmt.Errorf("%w: fractional denominator must be positive, got %d", ErrInvalidOdds, f.Den)
	}
	d := 1 + float64(f.Num)/float64(f.Den)
	if !validDecimal(d) {
		return 0, fmt.Errorf("%w: fraction %s gives decimal %v", ErrInvalidOdds, f, d)
	}
	return d, nil
}

// FractionFromDecimal finds a fraction n/d with 1+n/d equal to the decimal price.
// Small denominators are preferred (1.909... → 10/11), then denominators up to
// ten million (1.000333... → 1/3000); otherwise the exact ratio of the shortest
// decimal representation is used.
func FractionFromDecimal(d float64) (Fraction, error) {
	if !validDecimal(d) {
		return Fraction{}, fmt.Errorf("%w: decimal %v must be greater than 1.0", ErrInvalidOdds, d)
	}
	x := d - 1

	for _, maxDen := range []int64{maxNiceDenominator, maxExactDenominator} {
		if f, ok := approximate(x, maxDen); ok && closeTo(f, x) {
			return f, nil
		}
	}

	// Exact ratio of the shortest decimal string for x, reduced.
	dx := decimal.NewFromFloat(x)
	var r *big.Rat
	if exp := dx.Exponent(); exp < 0 {
		den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil)
		r = new(big.Rat).SetFrac(dx.Coefficient(), den)
	} else {
		r = new(big.Rat).SetInt(dx.BigInt())
	}
	if r.Num().IsInt64() && r.Denom().IsInt64() {
		return Fraction{Num: r.Num().Int64(), Den: r.Denom().Int64()}, nil
	}

	// Too many digits for int64; settle for the best bounded approximation.
	if f, ok := approximate(x, math.MaxInt32); ok {
		return f, nil
	}
	return Fraction{}, fmt.Errorf("%w: cannot express decimal %v as a fraction", ErrInvalidOdds, d)
}

// approximate returns the continued-fraction convergent of x with the largest
// denominator not exceeding maxDen.
func approximate(x float64, maxDen int64) (Fraction, bool) {
	if x <= 0 || math.IsInf(x, 0) || math.IsNaN(x) || x > math.MaxInt32 {
		return Fraction{}, false
	}

	var (
		h0, h1 int64 = 0, 1 // numerators
		k0, k1 int64 = 1, 0 // denominators
		rem          = x
	)
	for i := 0; i < 64; i++ {
		a := int64(math.Floor(rem))
		if k1 > 0 && a > (maxDen-k0)/k1 {
			break
		}
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDen {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2

		frac := rem - float64(a)
		if frac < fractionTolerance {
			break
		}
		rem = 1 / frac
	}

	if k1 == 0 || h1 <= 0 {
		return Fraction{}, false
	}
	return Fraction{Num: h1, Den: k1}, true
}

func closeTo(f Fraction, x float64) bool {
	v := float64(f.Num) / float64(f.Den)
	return math.Abs(v-x) <= 1e-9*math.Max(1, x)
}
