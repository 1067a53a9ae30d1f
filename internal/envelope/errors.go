package envelope

import "errors"

// Failure classes reported by the package. Construction and update
// errors wrap one of these sentinels; callers match with errors.Is.
var (
	// ErrInvalidConfiguration is returned by New when the quantile
	// ordering or window capacity is unusable.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput is returned when a quantile is requested over an
	// empty sample set, or a measurement is not a finite number.
	ErrInvalidInput = errors.New("invalid input")
)
