package analytics

import (
	"fmt"
	"sort"

	"github.com/tigdev/bazaarwatch/internal/model"
)

// QuantityFilter excludes listings by lot size before analysis. Zero values
// leave a bound open.
//
// Max keeps listings with Quantity <= Max: bulk dumpers distort the unit
// price signal on high-value items. Min keeps listings with Quantity > Min:
// tiny fragment lots are not worth buying, so their prices are noise.
type QuantityFilter struct {
	Min int64
	Max int64
}

// Apply returns the records passing the filter. The input is not modified.
func (f QuantityFilter) Apply(records []model.ListingRecord) []model.ListingRecord {
	if f.Min == 0 && f.Max == 0 {
		return records
	}
	out := make([]model.ListingRecord, 0, len(records))
	for _, r := range records {
		if f.Max > 0 && r.Quantity > f.Max {
			continue
		}
		if f.Min > 0 && r.Quantity <= f.Min {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MinPrice returns the minimum unit price of the set.
func MinPrice(records []model.ListingRecord) (int64, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("min price: %w", ErrInsufficientData)
	}
	min := records[0].UnitPrice
	for _, r := range records[1:] {
		if r.UnitPrice < min {
			min = r.UnitPrice
		}
	}
	return min, nil
}

// PercentilePrice returns the p-quantile (0 <= p <= 1) of the unit prices,
// linearly interpolated between order statistics.
func PercentilePrice(records []model.ListingRecord, p float64) (float64, error) {
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("percentile %v out of range [0, 1]", p)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("percentile price: %w", ErrInsufficientData)
	}

	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = float64(r.UnitPrice)
	}
	sort.Float64s(prices)

	return quantile(prices, p), nil
}

// quantile computes the linearly interpolated p-quantile of sorted values.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// VWAP returns the volume-weighted average unit price:
// sum(unit_price * quantity) / sum(quantity).
func VWAP(records []model.ListingRecord) (float64, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("vwap: %w", ErrInsufficientData)
	}

	var total, volume int64
	for _, r := range records {
		total += r.UnitPrice * r.Quantity
		volume += r.Quantity
	}
	if volume == 0 {
		return 0, fmt.Errorf("vwap: zero volume: %w", ErrDivisionByZero)
	}

	return float64(total) / float64(volume), nil
}

// ExpectedCost returns the expected spend to obtain one success at the
// given price and success probability.
func ExpectedCost(vwapPrice, successProbability float64) (float64, error) {
	if successProbability <= 0 {
		return 0, fmt.Errorf("expected cost with probability %v: %w", successProbability, ErrDivisionByZero)
	}
	return vwapPrice / successProbability, nil
}

// CraftModel describes the crafting loop that converts cells into sellable
// kernels: the expected sellable yield per loop (after the market fee) and
// the cells one loop consumes.
type CraftModel struct {
	KernelYield  float64
	CellsPerLoop float64
}

// DefaultCraftModel returns the in-game loop rates.
func DefaultCraftModel() CraftModel {
	return CraftModel{
		KernelYield:  (0.1 + 75.0/99.0*0.5 + 45.0/99.0*0.4) * 0.95 * 4,
		CellsPerLoop: 30,
	}
}

// LoopProfit returns the expected profit of one crafting loop at the given
// kernel and cell reference prices.
func LoopProfit(kernelPrice, cellPrice float64, m CraftModel) float64 {
	return kernelPrice*m.KernelYield - cellPrice*m.CellsPerLoop
}
