package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tigdev/bazaarwatch/internal/model"
)

const insertListingSQL = `
	INSERT INTO listings (item_name, total_price, unit_price, quantity, quality,
		listing_start, listing_end, seller, capture_date, capture_hour)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const deletePartitionSQL = `
	DELETE FROM listings
	WHERE item_name = $1 AND capture_date = $2 AND capture_hour = $3
`

const selectWindowSQL = `
	SELECT item_name, total_price, unit_price, quantity, quality,
		listing_start, listing_end, seller, capture_date, capture_hour
	FROM listings
	WHERE item_name = $1 AND capture_date >= $2 AND capture_date <= $3
`

// Adapter reads and writes the listings table.
type Adapter struct {
	db     *pgxpool.Pool
	loc    *time.Location
	logger *slog.Logger
}

// New creates a store adapter. Capture partitions are interpreted in loc.
func New(db *pgxpool.Pool, loc *time.Location, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{db: db, loc: loc, logger: logger}
}

// Append replaces the batch's (item, date, hour) partition with its records.
// Delete and inserts run in one transaction, so a retried cycle lands on the
// same rows instead of duplicating them.
func (a *Adapter) Append(ctx context.Context, batch model.ObservationBatch) error {
	start := time.Now()

	tx, err := a.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback(ctx)

	key := batch.Key
	if _, err := tx.Exec(ctx, deletePartitionSQL, key.Item, key.Date, key.Hour); err != nil {
		return fmt.Errorf("clear partition %s: %w", key, err)
	}

	pgxBatch := &pgx.Batch{}
	for _, r := range batch.Records {
		pgxBatch.Queue(insertListingSQL,
			r.ItemKey, r.TotalPrice, r.UnitPrice, r.Quantity, r.Quality,
			r.ListingStart, r.ListingEnd, r.Seller, key.Date, key.Hour)
	}

	results := tx.SendBatch(ctx, pgxBatch)
	for range batch.Records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert into partition %s: %w", key, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch for partition %s: %w", key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit partition %s: %w", key, err)
	}

	a.logger.Debug("appended partition",
		"run", batch.Run,
		"partition", key.String(),
		"records", len(batch.Records),
		"duration", time.Since(start),
	)
	return nil
}

// Read returns an item's observations captured in [from, to], ascending by
// capture timestamp. The date columns narrow the scan; exact hour filtering
// happens here because partitions are stamped in the capture location.
func (a *Adapter) Read(ctx context.Context, item string, from, to time.Time) ([]model.Observation, error) {
	fromDate := from.In(a.loc).Format("2006-01-02")
	toDate := to.In(a.loc).Format("2006-01-02")

	rows, err := a.db.Query(ctx, selectWindowSQL, item, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("read listings for %s: %w", item, err)
	}
	defer rows.Close()

	var observations []model.Observation
	for rows.Next() {
		var r model.ListingRecord
		var date, hour string
		if err := rows.Scan(&r.ItemKey, &r.TotalPrice, &r.UnitPrice, &r.Quantity, &r.Quality,
			&r.ListingStart, &r.ListingEnd, &r.Seller, &date, &hour); err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}

		capturedAt, err := (model.PartitionKey{Item: item, Date: date, Hour: hour}).Timestamp(a.loc)
		if err != nil {
			return nil, fmt.Errorf("bad partition stamp for %s: %w", item, err)
		}
		observations = append(observations, model.Observation{
			CapturedAt: capturedAt,
			Record:     r,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read listings for %s: %w", item, err)
	}

	return SortWindow(observations, from, to), nil
}

// SortWindow keeps observations captured in [from, to] and orders them by
// capture timestamp ascending.
func SortWindow(observations []model.Observation, from, to time.Time) []model.Observation {
	kept := observations[:0]
	for _, obs := range observations {
		if obs.CapturedAt.Before(from) || obs.CapturedAt.After(to) {
			continue
		}
		kept = append(kept, obs)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CapturedAt.Before(kept[j].CapturedAt)
	})
	return kept
}
