package analysis

import "errors"

var (
	// ErrInvalidStake is returned for non-positive or non-finite stakes.
	ErrInvalidStake = errors.New("invalid stake")

	// ErrInvalidProbability is returned for probabilities outside [0,1].
	ErrInvalidProbability = errors.New("invalid probability")

	// ErrInvalidCombo is returned for combos with fewer than two legs.
	ErrInvalidCombo = errors.New("invalid combo")

	// ErrInvalidMiddle is returned when two lines do not leave a window between them.
	ErrInvalidMiddle = errors.New("invalid middle")
)
