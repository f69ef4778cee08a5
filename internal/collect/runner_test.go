package collect

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tigdev/bazaarwatch/internal/fetch"
	"github.com/tigdev/bazaarwatch/internal/model"
	"github.com/tigdev/bazaarwatch/internal/timeutil"
)

// fakeStore records appended batches and can fail for chosen items.
type fakeStore struct {
	mu      sync.Mutex
	batches []model.ObservationBatch
	failFor map[string]error
}

func (s *fakeStore) Append(ctx context.Context, batch model.ObservationBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[batch.Key.Item]; ok {
		return err
	}
	s.batches = append(s.batches, batch)
	return nil
}

// itemScript serves a scripted page sequence per item.
type itemScript struct {
	mu    sync.Mutex
	pages map[string][]scriptedPage
	calls map[string]int
}

func (f *itemScript) FetchPage(ctx context.Context, itemKey, feedHash string, page int) (*fetch.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[itemKey]++
	script := f.pages[itemKey]
	if page >= len(script) {
		return nil, errors.New("fetched past scripted pages")
	}
	p := script[page]
	return p.res, p.err
}

func TestRunnerRun(t *testing.T) {
	stamp := timeutil.Stamp{Date: "2025-06-01", Hour: "21"}

	newFetcher := func(pages map[string][]scriptedPage) *itemScript {
		return &itemScript{pages: pages, calls: make(map[string]int)}
	}

	t.Run("collects and stores all items", func(t *testing.T) {
		fetcher := newFetcher(map[string][]scriptedPage{
			"demon-cell": {
				okPage("a0", rec("demon-cell", 100, "a")),
				okPage("a0", rec("demon-cell", 100, "a")),
			},
			"shine-cell": {
				okPage("b0", rec("shine-cell", 900, "b")),
				okPage("b0", rec("shine-cell", 900, "b")),
			},
		})
		store := &fakeStore{}

		r := NewRunner(New(fetcher, 0, quietLogger()), store, 4, quietLogger())
		result := r.Run(context.Background(), stamp, []Item{
			{Key: "demon-cell", FeedHash: "h1"},
			{Key: "shine-cell", FeedHash: "h2"},
		})

		if len(result.Records) != 2 {
			t.Fatalf("len(Records) = %d, want 2", len(result.Records))
		}
		if len(result.Errors) != 0 {
			t.Fatalf("Errors = %v, want none", result.Errors)
		}
		if len(store.batches) != 2 {
			t.Fatalf("len(batches) = %d, want 2", len(store.batches))
		}
		for _, b := range store.batches {
			if b.Key.Date != "2025-06-01" || b.Key.Hour != "21" {
				t.Errorf("batch partition = %v, want shared cycle stamp", b.Key)
			}
			if b.Run != result.Run {
				t.Error("batch should carry the cycle run ID")
			}
		}
	})

	t.Run("no-listings item skips store append", func(t *testing.T) {
		fetcher := newFetcher(map[string][]scriptedPage{
			"ghost-item": {emptyPage()},
		})
		store := &fakeStore{}

		r := NewRunner(New(fetcher, 0, quietLogger()), store, 2, quietLogger())
		result := r.Run(context.Background(), stamp, []Item{{Key: "ghost-item", FeedHash: "h"}})

		if len(result.NoListings) != 1 || result.NoListings[0] != "ghost-item" {
			t.Fatalf("NoListings = %v, want [ghost-item]", result.NoListings)
		}
		if len(result.Errors) != 0 {
			t.Fatalf("Errors = %v, want none (no listings is not a failure)", result.Errors)
		}
		if len(store.batches) != 0 {
			t.Fatalf("len(batches) = %d, want 0 (no append for empty item)", len(store.batches))
		}
	})

	t.Run("one failing item does not block others", func(t *testing.T) {
		fetcher := newFetcher(map[string][]scriptedPage{
			"demon-cell": {
				okPage("a0", rec("demon-cell", 100, "a")),
				okPage("a0", rec("demon-cell", 100, "a")),
			},
			"broken-item": {errPage(errors.New("boom"))},
		})
		store := &fakeStore{}

		r := NewRunner(New(fetcher, 0, quietLogger()), store, 2, quietLogger())
		result := r.Run(context.Background(), stamp, []Item{
			{Key: "demon-cell", FeedHash: "h1"},
			{Key: "broken-item", FeedHash: "h2"},
		})

		if _, ok := result.Records["demon-cell"]; !ok {
			t.Error("demon-cell should have been collected")
		}
		if _, ok := result.Errors["broken-item"]; !ok {
			t.Error("broken-item should be recorded as failed")
		}
		if len(store.batches) != 1 {
			t.Fatalf("len(batches) = %d, want 1", len(store.batches))
		}
	})

	t.Run("store failure recorded per item", func(t *testing.T) {
		fetcher := newFetcher(map[string][]scriptedPage{
			"demon-cell": {
				okPage("a0", rec("demon-cell", 100, "a")),
				okPage("a0", rec("demon-cell", 100, "a")),
			},
		})
		store := &fakeStore{failFor: map[string]error{"demon-cell": errors.New("db down")}}

		r := NewRunner(New(fetcher, 0, quietLogger()), store, 1, quietLogger())
		result := r.Run(context.Background(), stamp, []Item{{Key: "demon-cell", FeedHash: "h1"}})

		if len(result.Errors) != 1 {
			t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
		}
		if _, ok := result.Records["demon-cell"]; ok {
			t.Error("item with failed append must not report records")
		}
	})

	t.Run("nil store collects without persisting", func(t *testing.T) {
		fetcher := newFetcher(map[string][]scriptedPage{
			"demon-cell": {
				okPage("a0", rec("demon-cell", 100, "a")),
				okPage("a0", rec("demon-cell", 100, "a")),
			},
		})

		r := NewRunner(New(fetcher, 0, quietLogger()), nil, 1, quietLogger())
		result := r.Run(context.Background(), stamp, []Item{{Key: "demon-cell", FeedHash: "h1"}})
		if len(result.Records["demon-cell"]) != 1 {
			t.Fatalf("records = %v, want 1 record", result.Records["demon-cell"])
		}
	})
}
