package store

import (
	"testing"
	"time"

	"github.com/tigdev/bazaarwatch/internal/collect"
	"github.com/tigdev/bazaarwatch/internal/model"
)

var _ collect.Appender = (*Adapter)(nil)

func observationAt(hour int, unitPrice int64) model.Observation {
	return model.Observation{
		CapturedAt: time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC),
		Record: model.ListingRecord{
			ItemKey:   "demon-kernel",
			UnitPrice: unitPrice,
		},
	}
}

func TestSortWindow(t *testing.T) {
	t.Run("orders by capture timestamp", func(t *testing.T) {
		observations := []model.Observation{
			observationAt(14, 300),
			observationAt(9, 100),
			observationAt(11, 200),
		}

		got := SortWindow(observations,
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC))

		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].CapturedAt.Before(got[i-1].CapturedAt) {
				t.Fatal("observations not in ascending capture order")
			}
		}
	})

	t.Run("drops observations outside the window", func(t *testing.T) {
		observations := []model.Observation{
			observationAt(1, 100),
			observationAt(12, 200),
			observationAt(23, 300),
		}

		got := SortWindow(observations,
			time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))

		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if got[0].Record.UnitPrice != 200 {
			t.Errorf("kept unit price %d, want 200", got[0].Record.UnitPrice)
		}
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		observations := []model.Observation{
			observationAt(10, 100),
			observationAt(13, 200),
		}

		got := SortWindow(observations,
			time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))

		if len(got) != 2 {
			t.Fatalf("len = %d, want 2 (bounds inclusive)", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := SortWindow(nil, time.Now().Add(-time.Hour), time.Now())
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}
