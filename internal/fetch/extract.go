package fetch

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tigdev/bazaarwatch/internal/model"
)

// ExtractedPage is the result of parsing one feed page.
type ExtractedPage struct {
	// NoListings is true when the page carries the feed's explicit
	// "no items found" marker.
	NoListings bool
	Records    []model.ListingRecord
	// Dropped counts malformed rows that were skipped.
	Dropped int
}

// RowExtractor parses listing rows out of a raw feed page. Implementations
// encapsulate the site template; swapping the template means swapping the
// extractor, not the fetcher.
type RowExtractor interface {
	ExtractRows(itemKey string, page []byte) (*ExtractedPage, error)
}

// listingPeriodLayout is the feed's display format for listing start/end.
const listingPeriodLayout = "2006/01/02 15:04"

// TableExtractor parses the bazaar search result table.
type TableExtractor struct {
	loc    *time.Location
	logger *slog.Logger
}

// NewTableExtractor creates an extractor. Timestamps on the page carry no
// zone; loc says which zone the feed displays them in.
func NewTableExtractor(loc *time.Location, logger *slog.Logger) *TableExtractor {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TableExtractor{loc: loc, logger: logger}
}

// ExtractRows implements RowExtractor.
func (e *TableExtractor) ExtractRows(itemKey string, page []byte) (*ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	if doc.Find(".txt_error").Length() > 0 {
		return &ExtractedPage{NoListings: true}, nil
	}

	table := doc.Find("table.bazaarTable.bazaarlist").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("listing table not found in page")
	}

	out := &ExtractedPage{}
	rows := table.Find("tr")
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		rec, err := e.parseRow(itemKey, row)
		if err != nil {
			e.logger.Warn("skipping malformed listing row",
				"item", itemKey,
				"row", i,
				"error", err,
			)
			out.Dropped++
			return
		}
		out.Records = append(out.Records, rec)
	})

	return out, nil
}

// parseRow extracts one listing from a table row.
func (e *TableExtractor) parseRow(itemKey string, row *goquery.Selection) (model.ListingRecord, error) {
	var rec model.ListingRecord

	cells := row.Find("td")
	if cells.Length() < 3 {
		return rec, fmt.Errorf("expected 3 cells, got %d", cells.Length())
	}

	quality := strings.TrimSpace(cells.Eq(0).Find("span.starArea").Text())

	offer := cells.Eq(1)
	paras := offer.Find("p")
	if paras.Length() < 2 {
		return rec, fmt.Errorf("offer cell missing quantity/price lines")
	}

	quantity, err := parseQuantity(paras.Eq(0).Text())
	if err != nil {
		return rec, err
	}

	totalPrice, unitPrice, err := parsePrices(paras.Eq(1).Text())
	if err != nil {
		return rec, err
	}

	seller := strings.TrimSpace(offer.Find("a.strongLnk").Text())

	start, end, err := e.parsePeriod(cells.Eq(2).Text())
	if err != nil {
		return rec, err
	}

	rec = model.ListingRecord{
		ItemKey:      itemKey,
		Quality:      quality,
		Quantity:     quantity,
		TotalPrice:   totalPrice,
		UnitPrice:    unitPrice,
		ListingStart: start,
		ListingEnd:   end,
		Seller:       seller,
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

// parseQuantity parses "個数：3こ".
func parseQuantity(text string) (int64, error) {
	_, after, found := strings.Cut(text, "：")
	if !found {
		return 0, fmt.Errorf("quantity line %q missing separator", strings.TrimSpace(text))
	}
	after = strings.TrimSuffix(strings.TrimSpace(after), "こ")
	n, err := strconv.ParseInt(after, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", after, err)
	}
	return n, nil
}

// parsePrices parses "価格：30000G\n(ひとつあたり 10000G)". The per-unit
// line is absent for single-unit offers; the unit price then equals the
// total price.
func parsePrices(text string) (total, unit int64, err error) {
	lines := strings.Split(text, "\n")

	_, after, found := strings.Cut(lines[0], "：")
	if !found {
		return 0, 0, fmt.Errorf("price line %q missing separator", strings.TrimSpace(lines[0]))
	}
	after = strings.TrimSuffix(strings.TrimSpace(after), "G")
	total, err = strconv.ParseInt(after, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse total price %q: %w", after, err)
	}

	unit = total
	if len(lines) > 1 {
		u := strings.TrimSpace(lines[1])
		u = strings.TrimPrefix(u, "(ひとつあたり")
		u = strings.TrimSuffix(u, "G)")
		u = strings.TrimSpace(u)
		if u != "" {
			unit, err = strconv.ParseInt(u, 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("parse unit price %q: %w", u, err)
			}
		}
	}

	return total, unit, nil
}

// parsePeriod parses "2025/06/01 10:00 ～ 2025/06/03 10:00".
func (e *TableExtractor) parsePeriod(text string) (start, end time.Time, err error) {
	left, right, found := strings.Cut(strings.TrimSpace(text), "～")
	if !found {
		return start, end, fmt.Errorf("period %q missing separator", strings.TrimSpace(text))
	}

	start, err = time.ParseInLocation(listingPeriodLayout, strings.TrimSpace(left), e.loc)
	if err != nil {
		return start, end, fmt.Errorf("parse listing start: %w", err)
	}
	end, err = time.ParseInLocation(listingPeriodLayout, strings.TrimSpace(right), e.loc)
	if err != nil {
		return start, end, fmt.Errorf("parse listing end: %w", err)
	}
	return start, end, nil
}
