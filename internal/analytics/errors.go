package analytics

import "errors"

var (
	// ErrInsufficientData reports that an operation has no valid input:
	// an empty record set, zero traded volume, or fewer populated hourly
	// buckets than the operation's window. Callers degrade gracefully
	// (skip the item), they never substitute a numeric sentinel.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDivisionByZero reports a computation whose denominator is zero:
	// a flat-history z-score or a zero success probability.
	ErrDivisionByZero = errors.New("division by zero")
)
