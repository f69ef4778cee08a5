package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ListingRecord represents one marketplace sell offer as scraped.
// Records are immutable once created and persisted verbatim.
type ListingRecord struct {
	ItemKey      string    // Item the offer is for
	Quality      string    // Quality tier as displayed (star rating text)
	Quantity     int64     // Number of units in the offer (>= 1)
	TotalPrice   int64     // Total asking price in gold (>= 0)
	UnitPrice    int64     // Per-unit price; equals TotalPrice when quantity is 1 or unspecified
	ListingStart time.Time // Listing period start
	ListingEnd   time.Time // Listing period end
	Seller       string    // Seller display name
}

// Identity is the dedup key of a record. The feed exposes no stable listing
// ID, so identity is exact page-content equality over all scraped fields.
type Identity struct {
	ItemKey      string
	Quality      string
	Quantity     int64
	UnitPrice    int64
	Seller       string
	ListingStart int64 // unix seconds
	ListingEnd   int64 // unix seconds
}

// Identity returns the dedup key for the record.
func (r ListingRecord) Identity() Identity {
	return Identity{
		ItemKey:      r.ItemKey,
		Quality:      r.Quality,
		Quantity:     r.Quantity,
		UnitPrice:    r.UnitPrice,
		Seller:       r.Seller,
		ListingStart: r.ListingStart.Unix(),
		ListingEnd:   r.ListingEnd.Unix(),
	}
}

// InvalidRecordError reports a malformed scraped row. Such rows are dropped
// with a warning; they do not abort the page.
type InvalidRecordError struct {
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid listing record: %s %s", e.Field, e.Reason)
}

// Validate checks the record invariants.
func (r ListingRecord) Validate() error {
	if r.ItemKey == "" {
		return &InvalidRecordError{Field: "item_key", Reason: "is empty"}
	}
	if r.Quantity < 1 {
		return &InvalidRecordError{Field: "quantity", Reason: "must be >= 1"}
	}
	if r.TotalPrice < 0 {
		return &InvalidRecordError{Field: "total_price", Reason: "must be >= 0"}
	}
	if r.UnitPrice < 0 {
		return &InvalidRecordError{Field: "unit_price", Reason: "must be >= 0"}
	}
	if !r.ListingStart.IsZero() && !r.ListingEnd.IsZero() && r.ListingEnd.Before(r.ListingStart) {
		return &InvalidRecordError{Field: "listing_end", Reason: "precedes listing_start"}
	}
	return nil
}

// PartitionKey identifies the storage location of one batch.
type PartitionKey struct {
	Item string // Item key
	Date string // Capture date, "YYYY-MM-DD"
	Hour string // Capture hour, "HH" (00-23)
}

func (k PartitionKey) String() string {
	return k.Item + "/" + k.Date + "/" + k.Hour
}

// Timestamp returns the hour-granularity capture time of the partition in loc.
func (k PartitionKey) Timestamp(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15", k.Date+" "+k.Hour, loc)
}

// Observation is a stored record paired with its capture timestamp.
type Observation struct {
	CapturedAt time.Time
	Record     ListingRecord
}

// ObservationBatch is the unit of the append path: all records scraped for
// one item in one collection run. Append-only; one batch per run per item.
type ObservationBatch struct {
	Run     uuid.UUID // Collection run that produced the batch
	Key     PartitionKey
	Records []ListingRecord
}
