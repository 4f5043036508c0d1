// Package mathutil holds the numeric helpers behind the devig and middle models.
package mathutil

import (
	"errors"
	"math"
)

// ErrNoBracket is returned when a root finder's interval does not straddle zero.
var ErrNoBracket = errors.New("interval does not bracket a root")

// Normal is a normal distribution used to model final margins and totals.
type Normal struct {
	Mean   float64
	StdDev float64
}

// CDF returns P(X <= x).
func (n Normal) CDF(x float64) float64 {
	return NormalCDF((x - n.Mean) / n.StdDev)
}

// Between returns P(lo < X < hi), or 0 when the window is empty.
func (n Normal) Between(lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return n.CDF(hi) - n.CDF(lo)
}

// MeanFromTail backs out the mean of a normal with the given std dev for which
// P(X > line) = p.
func MeanFromTail(line, stdDev, p float64) float64 {
	return line + stdDev*NormalInvCDF(p)
}

// NormalCDF is the standard normal CDF, P(Z <= z).
func NormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// Acklam's rational approximation to the standard normal quantile.
var (
	invA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00,
	}
	invB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01,
	}
	invC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00,
	}
	invD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00,
	}
)

const invTail = 0.02425

// NormalInvCDF returns z with P(Z <= z) = p, accurate to about 1.5e-8.
// p outside (0,1) is clamped to ±10.
func NormalInvCDF(p float64) float64 {
	switch {
	case p <= 0:
		return -10
	case p >= 1:
		return 10
	case p == 0.5:
		return 0
	case p < invTail:
		return tailQuantile(math.Sqrt(-2 * math.Log(p)))
	case p > 1-invTail:
		return -tailQuantile(math.Sqrt(-2 * math.Log(1-p)))
	}

	q := p - 0.5
	r := q * q
	num := ((((invA[0]*r+invA[1])*r+invA[2])*r+invA[3])*r+invA[4])*r + invA[5]
	den := ((((invB[0]*r+invB[1])*r+invB[2])*r+invB[3])*r+invB[4])*r + 1
	return num * q / den
}

func tailQuantile(q float64) float64 {
	num := ((((invC[0]*q+invC[1])*q+invC[2])*q+invC[3])*q+invC[4])*q + invC[5]
	den := (((invD[0]*q+invD[1])*q+invD[2])*q+invD[3])*q + 1
	return num / den
}

// Bisect finds x in [lo, hi] with f(x) = 0 to within tol, assuming f is
// continuous and f(lo), f(hi) have opposite signs. After maxIter halvings it
// returns the midpoint of the remaining interval.
func Bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, error) {
	flo, fhi := f(lo), f(hi)
	switch {
	case flo == 0:
		return lo, nil
	case fhi == 0:
		return hi, nil
	case math.Signbit(flo) == math.Signbit(fhi):
		return 0, ErrNoBracket
	}

	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if math.Abs(fm) < tol {
			return mid, nil
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
