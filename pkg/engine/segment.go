package engine

import (
	"sort"

	"aurelion/pkg/schema"
)

// Demand labels, ordinal. The integer codes used by the encoded table are
// low=0, medium=1, high=2.
const (
	DemandLow    = "low"
	DemandMedium = "medium"
	DemandHigh   = "high"
)

// minDistinctProducts is the floor for three-way quantile binning.
const minDistinctProducts = 3

// ProductAggregate is one row per distinct (product_id, name, category).
type ProductAggregate struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Category  string `json:"category"`

	TotalUnits       int     `json:"totalUnits"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TransactionCount int     `json:"transactionCount"`
	AvgUnitPrice     float64 `json:"avgUnitPrice"`

	RevenuePerTransaction float64 `json:"revenuePerTransaction"`
	UnitsPerTransaction   float64 `json:"unitsPerTransaction"`

	DemandLabel string `json:"demandLabel"`
}

// LabelRange summarizes the unit volumes observed under one demand label.
type LabelRange struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Count int `json:"count"`
}

// SegmentResult is the per-product aggregate set with its quantile
// thresholds and label diagnostics.
type SegmentResult struct {
	Aggregates []ProductAggregate `json:"aggregates"`

	// LowThreshold is the 33rd percentile of total units, HighThreshold the
	// 66th. Recomputed from the data on every run.
	LowThreshold  float64 `json:"lowThreshold"`
	HighThreshold float64 `json:"highThreshold"`

	LabelCounts map[string]int        `json:"labelCounts"`
	LabelRanges map[string]LabelRange `json:"labelRanges"`
}

// Segment groups unified records by product identity, aggregates demand
// metrics, and assigns each product an ordinal demand label from the 33rd
// and 66th percentiles of total units. A value exactly on a threshold falls
// into the lower bucket.
//
// The unit-sum invariant is enforced before labeling: the aggregate total
// must equal the source total exactly, otherwise the join fanned out and
// the whole stage fails with InconsistentAggregationError.
func Segment(records []schema.UnifiedRecord) (*SegmentResult, error) {
	type groupKey struct {
		productID int
		name      string
		category  string
	}

	index := make(map[groupKey]int)
	var order []groupKey
	var aggregates []ProductAggregate
	priceSums := make(map[groupKey]float64)

	sourceUnits := 0
	for i := range records {
		rec := &records[i]
		sourceUnits += rec.Line.Quantity
		if !rec.HasLine {
			continue
		}

		key := groupKey{
			productID: rec.Line.ProductID,
			name:      rec.ProductName(),
			category:  rec.AssignedCategory,
		}

		pos, seen := index[key]
		if !seen {
			pos = len(aggregates)
			index[key] = pos
			order = append(order, key)
			aggregates = append(aggregates, ProductAggregate{
				ProductID: key.productID,
				Name:      key.name,
				Category:  key.category,
			})
		}

		agg := &aggregates[pos]
		agg.TotalUnits += rec.Line.Quantity
		agg.TotalRevenue += rec.TotalAmount
		agg.TransactionCount++
		priceSums[key] += rec.Line.UnitPrice
	}

	aggregateUnits := 0
	for i := range aggregates {
		agg := &aggregates[i]
		aggregateUnits += agg.TotalUnits
		// Every aggregate comes from at least one line, but a zero count
		// must never divide.
		if agg.TransactionCount > 0 {
			agg.AvgUnitPrice = priceSums[order[i]] / float64(agg.TransactionCount)
			agg.RevenuePerTransaction = agg.TotalRevenue / float64(agg.TransactionCount)
			agg.UnitsPerTransaction = float64(agg.TotalUnits) / float64(agg.TransactionCount)
		}
	}

	if aggregateUnits != sourceUnits {
		return nil, &InconsistentAggregationError{
			SourceUnits:    sourceUnits,
			AggregateUnits: aggregateUnits,
		}
	}

	if len(aggregates) < minDistinctProducts {
		return nil, &InsufficientDataError{
			Distinct: len(aggregates),
			Required: minDistinctProducts,
		}
	}

	units := make([]float64, len(aggregates))
	for i := range aggregates {
		units[i] = float64(aggregates[i].TotalUnits)
	}
	low := quantile(units, 0.33)
	high := quantile(units, 0.66)

	result := &SegmentResult{
		Aggregates:    aggregates,
		LowThreshold:  low,
		HighThreshold: high,
		LabelCounts:   make(map[string]int, 3),
		LabelRanges:   make(map[string]LabelRange, 3),
	}

	for i := range result.Aggregates {
		agg := &result.Aggregates[i]
		agg.DemandLabel = labelFor(float64(agg.TotalUnits), low, high)

		result.LabelCounts[agg.DemandLabel]++
		r, ok := result.LabelRanges[agg.DemandLabel]
		if !ok || agg.TotalUnits < r.Min {
			r.Min = agg.TotalUnits
		}
		if !ok || agg.TotalUnits > r.Max {
			r.Max = agg.TotalUnits
		}
		r.Count++
		result.LabelRanges[agg.DemandLabel] = r
	}

	return result, nil
}

// labelFor buckets a unit volume: boundary ties go to the lower bucket.
func labelFor(units, low, high float64) string {
	switch {
	case units <= low:
		return DemandLow
	case units <= high:
		return DemandMedium
	default:
		return DemandHigh
	}
}

// quantile computes the q-th quantile with linear interpolation between
// order statistics, the same convention the original thresholds were
// derived under. values is copied before sorting.
func quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n == 1 {
		return sorted[0]
	}

	h := q * float64(n-1)
	lo := int(h)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
