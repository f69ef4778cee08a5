package collect

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tigdev/bazaarwatch/internal/model"
	"github.com/tigdev/bazaarwatch/internal/timeutil"
)

// Appender is the store's write boundary consumed by the runner.
type Appender interface {
	Append(ctx context.Context, batch model.ObservationBatch) error
}

// CycleResult holds the outcome of one collection cycle. Every requested
// item appears in exactly one of the three maps/slices.
type CycleResult struct {
	Run uuid.UUID
	// Records holds the collected listings per item key. Items with zero
	// current listings appear in NoListings instead.
	Records map[string][]model.ListingRecord
	// NoListings lists items the feed reported as having no offers.
	NoListings []string
	// Errors holds the failure per item that could not be collected or
	// stored. These are candidates for an external retry.
	Errors map[string]error
}

// Runner collects many items concurrently and appends each item's batch to
// the observation store. Items share no state; concurrency is bounded by a
// semaphore.
type Runner struct {
	collector   *Collector
	store       Appender
	concurrency int
	logger      *slog.Logger
}

// NewRunner creates a Runner. store may be nil for collect-only cycles
// (e.g. ad-hoc alerts that do not persist).
func NewRunner(collector *Collector, store Appender, concurrency int, logger *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		collector:   collector,
		store:       store,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run executes one collection cycle over items. All batches share the
// cycle's capture stamp. Per-item failures are recorded, never fatal to the
// cycle.
func (r *Runner) Run(ctx context.Context, stamp timeutil.Stamp, items []Item) *CycleResult {
	start := time.Now()

	result := &CycleResult{
		Run:     uuid.New(),
		Records: make(map[string][]model.ListingRecord),
		Errors:  make(map[string]error),
	}

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, item := range items {
		wg.Add(1)
		go func(item Item) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				result.Errors[item.Key] = ctx.Err()
				mu.Unlock()
				return
			}

			records, err := r.collectAndStore(ctx, result.Run, stamp, item)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrNoListings):
				result.NoListings = append(result.NoListings, item.Key)
			case err != nil:
				r.logger.Warn("item collection failed",
					"run", result.Run,
					"item", item.Key,
					"error", err,
				)
				result.Errors[item.Key] = err
			default:
				result.Records[item.Key] = records
			}
		}(item)
	}

	wg.Wait()

	r.logger.Info("collection cycle complete",
		"run", result.Run,
		"items", len(items),
		"collected", len(result.Records),
		"no_listings", len(result.NoListings),
		"errors", len(result.Errors),
		"duration", time.Since(start),
	)

	return result
}

// collectAndStore collects one item and appends its batch. The append is
// skipped when the item has no records, so an empty feed never creates an
// empty partition.
func (r *Runner) collectAndStore(ctx context.Context, run uuid.UUID, stamp timeutil.Stamp, item Item) ([]model.ListingRecord, error) {
	records, err := r.collector.Collect(ctx, item)
	if err != nil {
		return nil, err
	}

	if r.store != nil && len(records) > 0 {
		batch := model.ObservationBatch{
			Run: run,
			Key: model.PartitionKey{
				Item: item.Key,
				Date: stamp.Date,
				Hour: stamp.Hour,
			},
			Records: records,
		}
		if err := r.store.Append(ctx, batch); err != nil {
			return nil, err
		}
	}

	return records, nil
}
