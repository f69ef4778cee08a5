package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tigdev/bazaarwatch/internal/model"
)

// PageStatus tags a fetched page.
type PageStatus int

const (
	// StatusOK means the page contained listing rows.
	StatusOK PageStatus = iota
	// StatusEmpty means the feed explicitly reported no listings for the
	// item. Distinct from a transport failure.
	StatusEmpty
)

// PageResult is one fetched page of the feed.
type PageResult struct {
	Status PageStatus
	// Raw is the page body as received, before parsing. The pagination
	// collector compares consecutive pages on this representation.
	Raw     []byte
	Records []model.ListingRecord
}

// FetchError represents a transport-level failure from the feed.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feed fetch error %d: %s", e.StatusCode, e.URL)
}

// IsRetryable returns true if an external retry policy should retry.
func (e *FetchError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// Fetcher is the listing-page fetcher boundary consumed by the collector.
type Fetcher interface {
	FetchPage(ctx context.Context, itemKey, feedHash string, page int) (*PageResult, error)
}

// FetchPage fetches and parses one page of listings for an item. feedHash is
// the feed's opaque identifier for the item (resolved via the catalog).
func (c *Client) FetchPage(ctx context.Context, itemKey, feedHash string, page int) (*PageResult, error) {
	pageURL := fmt.Sprintf("%s/%s/page/%d", c.baseURL, feedHash, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	extracted, err := c.extractor.ExtractRows(itemKey, body)
	if err != nil {
		return nil, fmt.Errorf("extract rows: %w", err)
	}

	if extracted.NoListings {
		c.logger.Debug("feed reports no listings", "item", itemKey, "page", page)
		return &PageResult{Status: StatusEmpty, Raw: body}, nil
	}

	if extracted.Dropped > 0 {
		c.logger.Warn("dropped malformed listing rows",
			"item", itemKey,
			"page", page,
			"dropped", extracted.Dropped,
		)
	}

	return &PageResult{
		Status:  StatusOK,
		Raw:     body,
		Records: extracted.Records,
	}, nil
}
