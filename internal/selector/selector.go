// Package selector extracts the listings worth alerting on: offers priced
// well under the current reference price, with a cheapest-overall fallback
// when too few qualify. Composite items (a whole item and its fragment
// counterpart at a fixed conversion ratio) are ranked in one merged pool on
// whole-unit-equivalent prices.
package selector

import (
	"sort"

	"github.com/tigdev/bazaarwatch/internal/model"
)

// Params tunes one selection.
type Params struct {
	// DiscountMargin is how far under the reference price a listing must
	// be to qualify, in gold.
	DiscountMargin int64
	// TopN caps the number of qualifying listings returned.
	TopN int
	// MinResultCount is the fallback size: when fewer listings qualify,
	// the cheapest MinResultCount overall are returned instead.
	MinResultCount int
}

// DefaultMinResultCount is used when Params.MinResultCount is zero.
const DefaultMinResultCount = 3

// Candidate pairs a listing with the price used for ranking. RankPrice is
// the whole-unit-equivalent price; for plain listings it equals UnitPrice.
// The persisted record is never mutated.
type Candidate struct {
	Record    model.ListingRecord
	RankPrice float64
}

// Select returns the cheap listings among candidates given a reference
// price, ascending by rank price, ties broken by earliest listing start.
func Select(candidates []Candidate, referencePrice float64, p Params) []model.ListingRecord {
	if p.MinResultCount <= 0 {
		p.MinResultCount = DefaultMinResultCount
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RankPrice != sorted[j].RankPrice {
			return sorted[i].RankPrice < sorted[j].RankPrice
		}
		return sorted[i].Record.ListingStart.Before(sorted[j].Record.ListingStart)
	})

	threshold := referencePrice - float64(p.DiscountMargin)
	var qualifying []Candidate
	for _, c := range sorted {
		if c.RankPrice <= threshold {
			qualifying = append(qualifying, c)
		}
	}

	var picked []Candidate
	switch {
	case len(qualifying) < p.MinResultCount:
		// Too few real discounts: fall back to the cheapest overall so
		// the alert always shows the state of the market.
		picked = sorted
		if len(picked) > p.MinResultCount {
			picked = picked[:p.MinResultCount]
		}
	default:
		picked = qualifying
		if p.TopN > 0 && len(picked) > p.TopN {
			picked = picked[:p.TopN]
		}
	}

	records := make([]model.ListingRecord, len(picked))
	for i, c := range picked {
		records[i] = c.Record
	}
	return records
}

// SelectPlain selects from a single item's listings ranked on unit price.
func SelectPlain(listings []model.ListingRecord, referencePrice float64, p Params) []model.ListingRecord {
	return Select(plainCandidates(listings), referencePrice, p)
}

// EffectiveReference returns the composite reference price: the cheaper of
// the whole item's reference and the fragment reference converted to
// whole-unit terms.
func EffectiveReference(wholeRef, fragmentRef float64, ratio int64) float64 {
	converted := fragmentRef * float64(ratio)
	if converted < wholeRef {
		return converted
	}
	return wholeRef
}

// SelectComposite merges a whole item's listings with its fragment
// counterpart's, normalizing fragment prices to whole-unit-equivalent terms
// for ranking only, and selects against the effective reference price.
func SelectComposite(whole, fragments []model.ListingRecord, wholeRef, fragmentRef float64, ratio int64, p Params) []model.ListingRecord {
	candidates := plainCandidates(whole)
	for _, r := range fragments {
		candidates = append(candidates, Candidate{
			Record:    r,
			RankPrice: float64(r.UnitPrice) * float64(ratio),
		})
	}

	return Select(candidates, EffectiveReference(wholeRef, fragmentRef, ratio), p)
}

func plainCandidates(listings []model.ListingRecord) []Candidate {
	candidates := make([]Candidate, len(listings))
	for i, r := range listings {
		candidates[i] = Candidate{Record: r, RankPrice: float64(r.UnitPrice)}
	}
	return candidates
}
