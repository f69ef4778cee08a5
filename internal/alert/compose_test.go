package alert

import (
	"strings"
	"testing"
	"time"

	"github.com/tigdev/bazaarwatch/internal/analytics"
	"github.com/tigdev/bazaarwatch/internal/model"
	"github.com/tigdev/bazaarwatch/internal/timeutil"
)

func TestFormatGold(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		if got := FormatGold(tt.in); got != tt.want {
			t.Errorf("FormatGold(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheapListingMessage(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	picks := []model.ListingRecord{{
		ItemKey:      "demon-kernel",
		Quantity:     2,
		UnitPrice:    9500,
		TotalPrice:   19000,
		Seller:       "Torneko",
		ListingStart: start,
		ListingEnd:   start.Add(48 * time.Hour),
	}}

	t.Run("lists price, lot, seller and period", func(t *testing.T) {
		msg := CheapListingMessage("demon-kernel", 10000, picks, time.UTC)
		for _, want := range []string{"demon-kernel", "ref 10,000G", "9,500G x2", "Torneko", "06/01 10:30", "06/03 10:30"} {
			if !strings.Contains(msg, want) {
				t.Errorf("message missing %q:\n%s", want, msg)
			}
		}
	})

	t.Run("no picks", func(t *testing.T) {
		msg := CheapListingMessage("demon-kernel", 10000, nil, time.UTC)
		if !strings.Contains(msg, "no listings") {
			t.Errorf("message should note the empty result:\n%s", msg)
		}
	})
}

func TestHourlyPriceMessage(t *testing.T) {
	stamp := timeutil.Stamp{Date: "2025-06-01", Hour: "09"}
	msg := HourlyPriceMessage(stamp,
		[]ItemPrice{{Name: "demon-kernel", Reference: 98000}},
		[]ProfitLine{{Family: "demon", Profit: 12345}},
	)

	for _, want := range []string{"2025-06-01 09:00", "demon-kernel: 98,000G", "demon loop profit: 12,345G"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestPeriodReportMessage(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := []analytics.SeriesPoint{
		{Hour: base, Value: 10000},
		{Hour: base.Add(time.Hour), Value: 12000},
		{Hour: base.Add(2 * time.Hour), Value: 11000},
	}

	t.Run("full report", func(t *testing.T) {
		msg := PeriodReportMessage(PeriodReport{
			Item:       "demon-kernel",
			Period:     "2w",
			Percentile: series,
			Rolling:    []analytics.RollingPoint{{Hour: base.Add(2 * time.Hour), Mean: 11000, Std: 816}},
			VolumeZ:    2.5,
			HasVolumeZ: true,
		})
		for _, want := range []string{"demon-kernel over 2w", "latest: 11,000G", "range: 10,000G ~ 12,000G", "(3 hours)", "mean 11,000G", "z-score: 2.50"} {
			if !strings.Contains(msg, want) {
				t.Errorf("message missing %q:\n%s", want, msg)
			}
		}
	})

	t.Run("empty window", func(t *testing.T) {
		msg := PeriodReportMessage(PeriodReport{Item: "demon-kernel", Period: "1d"})
		if !strings.Contains(msg, "no data in window") {
			t.Errorf("message should note the empty window:\n%s", msg)
		}
	})

	t.Run("z-score omitted when unavailable", func(t *testing.T) {
		msg := PeriodReportMessage(PeriodReport{Item: "demon-kernel", Period: "1d", Percentile: series})
		if strings.Contains(msg, "z-score") {
			t.Errorf("message should omit unavailable z-score:\n%s", msg)
		}
	})
}
