package stake

import "errors"

var (
	ErrInvalidBankroll      = errors.New("invalid bankroll")
	ErrInvalidKellyFraction = errors.New("invalid kelly fraction")
	ErrUnknownMode          = errors.New("unknown optimizer mode")

	// ErrAllocationRequired is returned when POSITIVE_EV is asked to size legs
	// without saying whether they share one bankroll or are independent.
	ErrAllocationRequired = errors.New("allocation policy required")
)
