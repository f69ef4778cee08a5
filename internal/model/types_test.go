package model

import (
	"errors"
	"testing"
	"time"
)

func validRecord() ListingRecord {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return ListingRecord{
		ItemKey:      "demon-cell",
		Quality:      "★★★",
		Quantity:     3,
		TotalPrice:   30000,
		UnitPrice:    10000,
		ListingStart: start,
		ListingEnd:   start.Add(48 * time.Hour),
		Seller:       "Torneko",
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		if err := validRecord().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects bad fields", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*ListingRecord)
			field  string
		}{
			{"empty item key", func(r *ListingRecord) { r.ItemKey = "" }, "item_key"},
			{"zero quantity", func(r *ListingRecord) { r.Quantity = 0 }, "quantity"},
			{"negative quantity", func(r *ListingRecord) { r.Quantity = -2 }, "quantity"},
			{"negative total price", func(r *ListingRecord) { r.TotalPrice = -1 }, "total_price"},
			{"negative unit price", func(r *ListingRecord) { r.UnitPrice = -500 }, "unit_price"},
			{"end before start", func(r *ListingRecord) {
				r.ListingEnd = r.ListingStart.Add(-time.Hour)
			}, "listing_end"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r := validRecord()
				tt.mutate(&r)
				err := r.Validate()
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var invErr *InvalidRecordError
				if !errors.As(err, &invErr) {
					t.Fatalf("expected *InvalidRecordError, got %T", err)
				}
				if invErr.Field != tt.field {
					t.Errorf("Field = %q, want %q", invErr.Field, tt.field)
				}
			})
		}
	})

	t.Run("zero timestamps allowed", func(t *testing.T) {
		r := validRecord()
		r.ListingStart = time.Time{}
		r.ListingEnd = time.Time{}
		if err := r.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestIdentity(t *testing.T) {
	t.Run("equal records share identity", func(t *testing.T) {
		a := validRecord()
		b := validRecord()
		if a.Identity() != b.Identity() {
			t.Error("identical records should have equal identity")
		}
	})

	t.Run("differing fields change identity", func(t *testing.T) {
		a := validRecord()

		b := validRecord()
		b.UnitPrice++
		if a.Identity() == b.Identity() {
			t.Error("unit price should affect identity")
		}

		c := validRecord()
		c.Seller = "Ruida"
		if a.Identity() == c.Identity() {
			t.Error("seller should affect identity")
		}

		d := validRecord()
		d.ListingStart = d.ListingStart.Add(time.Minute)
		if a.Identity() == d.Identity() {
			t.Error("listing start should affect identity")
		}
	})

	t.Run("total price excluded from identity", func(t *testing.T) {
		// Identity is the full page-content tuple:
		// total price is derivable from unit price and quantity.
		a := validRecord()
		b := validRecord()
		b.TotalPrice++
		if a.Identity() != b.Identity() {
			t.Error("total price should not affect identity")
		}
	})
}

func TestPartitionKey(t *testing.T) {
	k := PartitionKey{Item: "demon-cell", Date: "2025-06-01", Hour: "21"}

	t.Run("string form", func(t *testing.T) {
		if got := k.String(); got != "demon-cell/2025-06-01/21" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("timestamp", func(t *testing.T) {
		ts, err := k.Timestamp(time.UTC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)
		if !ts.Equal(want) {
			t.Errorf("Timestamp() = %v, want %v", ts, want)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		bad := PartitionKey{Item: "x", Date: "junk", Hour: "21"}
		if _, err := bad.Timestamp(time.UTC); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
