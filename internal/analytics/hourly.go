package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/tigdev/bazaarwatch/internal/model"
)

// HourBucket aggregates one hour of observations for an item. Hours with no
// observations produce no bucket.
type HourBucket struct {
	Hour   time.Time // truncated to the hour
	Min    int64     // minimum unit price
	Median float64   // interpolated median unit price
	VWAP   float64   // volume-weighted average unit price
	Volume int64     // total quantity offered
}

// SeriesPoint is one hourly value of a derived series.
type SeriesPoint struct {
	Hour  time.Time
	Value float64
}

// HourlySummary buckets observations by capture hour and aggregates each
// bucket. Buckets are returned in ascending hour order; empty hours are
// omitted, never zero-filled.
func HourlySummary(observations []model.Observation) ([]HourBucket, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("hourly summary: %w", ErrInsufficientData)
	}

	byHour := make(map[time.Time][]model.ListingRecord)
	for _, obs := range observations {
		h := obs.CapturedAt.Truncate(time.Hour)
		byHour[h] = append(byHour[h], obs.Record)
	}

	buckets := make([]HourBucket, 0, len(byHour))
	for hour, records := range byHour {
		// Non-empty by construction; these cannot fail.
		min, err := MinPrice(records)
		if err != nil {
			return nil, err
		}
		median, err := PercentilePrice(records, 0.5)
		if err != nil {
			return nil, err
		}
		vwap, err := VWAP(records)
		if err != nil {
			return nil, err
		}

		var volume int64
		for _, r := range records {
			volume += r.Quantity
		}

		buckets = append(buckets, HourBucket{
			Hour:   hour,
			Min:    min,
			Median: median,
			VWAP:   vwap,
			Volume: volume,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Hour.Before(buckets[j].Hour)
	})

	return buckets, nil
}

// HourlyPercentile computes the p-quantile of unit prices per capture hour.
func HourlyPercentile(observations []model.Observation, p float64) ([]SeriesPoint, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("hourly percentile: %w", ErrInsufficientData)
	}

	byHour := make(map[time.Time][]model.ListingRecord)
	for _, obs := range observations {
		h := obs.CapturedAt.Truncate(time.Hour)
		byHour[h] = append(byHour[h], obs.Record)
	}

	points := make([]SeriesPoint, 0, len(byHour))
	for hour, records := range byHour {
		v, err := PercentilePrice(records, p)
		if err != nil {
			return nil, err
		}
		points = append(points, SeriesPoint{Hour: hour, Value: v})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Hour.Before(points[j].Hour)
	})

	return points, nil
}

// VolumeSeries extracts the hourly traded-volume series from buckets.
func VolumeSeries(buckets []HourBucket) []SeriesPoint {
	points := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		points[i] = SeriesPoint{Hour: b.Hour, Value: float64(b.Volume)}
	}
	return points
}

// VWAPSeries extracts the hourly VWAP series from buckets.
func VWAPSeries(buckets []HourBucket) []SeriesPoint {
	points := make([]SeriesPoint, len(buckets))
	for i, b := range buckets {
		points[i] = SeriesPoint{Hour: b.Hour, Value: b.VWAP}
	}
	return points
}
