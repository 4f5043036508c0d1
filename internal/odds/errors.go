package odds

import "errors"

var (
	// ErrInvalidOdds is returned for prices that cannot describe a bet:
	// American odds of 0, a non-positive fractional denominator, or decimal odds <= 1.0.
	ErrInvalidOdds = errors.New("invalid odds")

	// ErrDegenerateMarket is returned when a market's implied probabilities
	// cannot be normalized into a distribution.
	ErrDegenerateMarket = errors.New("degenerate market")

	// ErrInvalidMarket is returned when an odds set breaks its structural rules
	// (fewer than two outcomes, duplicate outcomes).
	ErrInvalidMarket = errors.New("invalid market")

	ErrUnknownFormat = errors.New("unknown odds format")
)
