package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/tigdev/bazaarwatch/internal/analytics"
	"github.com/tigdev/bazaarwatch/internal/model"
	"github.com/tigdev/bazaarwatch/internal/timeutil"
)

// FormatGold renders a gold amount with thousands separators: 1234567 ->
// "1,234,567".
func FormatGold(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := fmt.Sprintf("%d", v)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// ItemPrice is one item's reference price for the hourly message.
type ItemPrice struct {
	Name      string
	Reference float64
}

// ProfitLine is one family's crafting expectation for the hourly message.
type ProfitLine struct {
	Family string
	Profit float64
}

// CheapListingMessage renders the post-cycle digest for one item: the
// reference price and the selected listings with price, lot size, seller
// and listing period. Periods are rendered in loc.
func CheapListingMessage(item string, reference float64, picks []model.ListingRecord, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (ref %sG)\n", item, FormatGold(int64(reference)))

	if len(picks) == 0 {
		b.WriteString("no listings\n")
		return b.String()
	}

	for _, r := range picks {
		fmt.Fprintf(&b, "%sG x%d  %s  %s ~ %s\n",
			FormatGold(r.UnitPrice),
			r.Quantity,
			r.Seller,
			r.ListingStart.In(loc).Format("01/02 15:04"),
			r.ListingEnd.In(loc).Format("01/02 15:04"),
		)
	}
	return b.String()
}

// HourlyPriceMessage renders the per-hour reference price summary with one
// profit line per family.
func HourlyPriceMessage(stamp timeutil.Stamp, prices []ItemPrice, profits []ProfitLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "prices %s %s:00\n", stamp.Date, stamp.Hour)

	for _, p := range prices {
		fmt.Fprintf(&b, "%s: %sG\n", p.Name, FormatGold(int64(p.Reference)))
	}
	for _, p := range profits {
		fmt.Fprintf(&b, "%s loop profit: %sG\n", p.Family, FormatGold(int64(p.Profit)))
	}
	return b.String()
}

// PeriodReport summarizes one item's price history over a report window.
type PeriodReport struct {
	Item       string
	Period     string
	Percentile []analytics.SeriesPoint
	Rolling    []analytics.RollingPoint
	// VolumeZ is meaningful only when HasVolumeZ is set; a flat or short
	// volume history leaves it unset.
	VolumeZ    float64
	HasVolumeZ bool
}

// PeriodReportMessage renders a period report: the latest percentile
// reference, the window extremes and the latest rolling band.
func PeriodReportMessage(r PeriodReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s over %s\n", r.Item, r.Period)

	if len(r.Percentile) == 0 {
		b.WriteString("no data in window\n")
		return b.String()
	}

	latest := r.Percentile[len(r.Percentile)-1]
	lo, hi := latest.Value, latest.Value
	for _, p := range r.Percentile {
		if p.Value < lo {
			lo = p.Value
		}
		if p.Value > hi {
			hi = p.Value
		}
	}
	fmt.Fprintf(&b, "latest: %sG  range: %sG ~ %sG  (%d hours)\n",
		FormatGold(int64(latest.Value)), FormatGold(int64(lo)), FormatGold(int64(hi)), len(r.Percentile))

	if len(r.Rolling) > 0 {
		band := r.Rolling[len(r.Rolling)-1]
		fmt.Fprintf(&b, "rolling: mean %sG std %sG\n",
			FormatGold(int64(band.Mean)), FormatGold(int64(band.Std)))
	}
	if r.HasVolumeZ {
		fmt.Fprintf(&b, "volume z-score: %.2f\n", r.VolumeZ)
	}
	return b.String()
}
