package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tigdev/bazaarwatch/internal/fetch"
	"github.com/tigdev/bazaarwatch/internal/model"
)

// ErrNoListings reports that an item has zero current listings. It is not a
// failure: callers must treat it differently from a transient fetch error,
// which remains retryable by the external policy.
var ErrNoListings = errors.New("item has no current listings")

// Item identifies one item to collect: its key plus the feed's opaque page
// hash for it.
type Item struct {
	Key      string
	FeedHash string
}

// Collector walks the paginated feed for a single item.
type Collector struct {
	fetcher fetch.Fetcher
	// delay is the fixed courtesy wait between page fetches. Not a retry
	// backoff; retry is the caller's concern.
	delay  time.Duration
	logger *slog.Logger
}

// New creates a Collector.
func New(fetcher fetch.Fetcher, delay time.Duration, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		fetcher: fetcher,
		delay:   delay,
		logger:  logger,
	}
}

// Collect fetches all pages of listings for one item.
//
// Termination:
//   - the feed reports no listings on page 0: ErrNoListings
//   - the feed reports no listings past page 0: stop, keep what we have
//   - a page's raw content equals the previous page's raw content: stop,
//     the repeated page's records are not appended
//
// The raw-content comparison happens on the pre-parse page bytes so that
// incidental reordering of parsed records cannot mask a repeat. Any fetch
// failure aborts the whole item; partial pages are discarded.
func (c *Collector) Collect(ctx context.Context, item Item) ([]model.ListingRecord, error) {
	start := time.Now()

	var (
		records []model.ListingRecord
		prevRaw []byte
		seen    = make(map[model.Identity]struct{})
		dupes   int
	)

	for page := 0; ; page++ {
		if page > 0 {
			// Courtesy delay, also the cooperative cancellation point.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		res, err := c.fetcher.FetchPage(ctx, item.Key, item.FeedHash, page)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", item.Key, page, err)
		}

		if res.Status == fetch.StatusEmpty {
			if page == 0 {
				return nil, fmt.Errorf("%s: %w", item.Key, ErrNoListings)
			}
			break
		}

		// The feed repeats the final page once past the end rather than
		// returning empty. Tied to this upstream's behavior; do not
		// generalize to other feeds without evidence.
		if prevRaw != nil && bytes.Equal(res.Raw, prevRaw) {
			break
		}
		prevRaw = res.Raw

		for _, rec := range res.Records {
			id := rec.Identity()
			if _, ok := seen[id]; ok {
				dupes++
				continue
			}
			seen[id] = struct{}{}
			records = append(records, rec)
		}
	}

	c.logger.Debug("collected item",
		"item", item.Key,
		"records", len(records),
		"duplicates", dupes,
		"duration", time.Since(start),
	)

	return records, nil
}
