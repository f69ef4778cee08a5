package analytics

import (
	"fmt"
	"math"
	"time"
)

// RollingPoint is the rolling mean and standard deviation of a series at
// one hour. Std is the sample standard deviation over the window.
type RollingPoint struct {
	Hour time.Time
	Mean float64
	Std  float64
}

// RollingStats computes the simple moving average and sample standard
// deviation over the trailing window of populated hourly buckets. A point
// is emitted only once window buckets are available, so the result starts
// at input index window-1; earlier points are undefined, never backfilled
// from partial windows.
func RollingStats(series []SeriesPoint, window int) ([]RollingPoint, error) {
	if window < 2 {
		return nil, fmt.Errorf("rolling window must be >= 2, got %d", window)
	}
	if len(series) < window {
		return nil, fmt.Errorf("rolling stats: %d buckets < window %d: %w",
			len(series), window, ErrInsufficientData)
	}

	points := make([]RollingPoint, 0, len(series)-window+1)
	for i := window - 1; i < len(series); i++ {
		mean, std := meanStd(series[i-window+1 : i+1])
		points = append(points, RollingPoint{
			Hour: series[i].Hour,
			Mean: mean,
			Std:  std,
		})
	}

	return points, nil
}

// VolumeZScore returns the z-score of the latest volume against the
// trailing window: (current - rolling_mean) / rolling_std. The window
// includes the current bucket. A flat history (zero std) is undefined.
func VolumeZScore(series []SeriesPoint, window int) (float64, error) {
	if window < 2 {
		return 0, fmt.Errorf("z-score window must be >= 2, got %d", window)
	}
	if len(series) < window {
		return 0, fmt.Errorf("volume z-score: %d buckets < window %d: %w",
			len(series), window, ErrInsufficientData)
	}

	tail := series[len(series)-window:]
	mean, std := meanStd(tail)
	if std == 0 {
		return 0, fmt.Errorf("volume z-score: flat history: %w", ErrDivisionByZero)
	}

	current := series[len(series)-1].Value
	return (current - mean) / std, nil
}

// meanStd computes mean and sample standard deviation of the points.
// Callers guarantee len(points) >= 2.
func meanStd(points []SeriesPoint) (mean, std float64) {
	n := float64(len(points))
	for _, p := range points {
		mean += p.Value
	}
	mean /= n

	var ss float64
	for _, p := range points {
		d := p.Value - mean
		ss += d * d
	}
	std = math.Sqrt(ss / (n - 1))
	return mean, std
}
