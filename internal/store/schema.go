package store

import (
	"context"
	"fmt"
)

// listingsDDL creates the listing history table. Column order mirrors the
// upstream row layout: identity columns first, then the capture partition.
const listingsDDL = `
CREATE TABLE IF NOT EXISTS listings (
	item_name     TEXT        NOT NULL,
	total_price   BIGINT      NOT NULL,
	unit_price    BIGINT      NOT NULL,
	quantity      BIGINT      NOT NULL,
	quality       TEXT        NOT NULL,
	listing_start TIMESTAMPTZ NOT NULL,
	listing_end   TIMESTAMPTZ NOT NULL,
	seller        TEXT        NOT NULL,
	capture_date  TEXT        NOT NULL,
	capture_hour  TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS listings_partition_idx
	ON listings (item_name, capture_date, capture_hour);
`

// EnsureSchema creates the listings table and its partition index.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, listingsDDL); err != nil {
		return fmt.Errorf("ensure listings schema: %w", err)
	}
	return nil
}
