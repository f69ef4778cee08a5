// Package analytics computes price statistics over listing observations.
//
// Operations are pure functions over record or observation slices: min,
// interpolated percentile, VWAP, hourly aggregates, rolling mean/std, volume
// z-score, expected acquisition cost. Undefined cases (empty input, zero
// volume, flat history, zero probability) surface as ErrInsufficientData or
// ErrDivisionByZero; no operation silently yields 0 or NaN.
package analytics
