package engine

import (
	"sort"

	"aurelion/pkg/schema"
)

// TargetColumn is the fixed name the external model trainer expects the
// demand label under.
const TargetColumn = "demand_level"

// categoryPrefix prefixes every one-hot indicator column.
const categoryPrefix = "category_"

// ModelTable is the model-ready feature table: all columns numeric, one row
// per product aggregate, the target in the last column.
type ModelTable struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`

	// TransformLog records what the encoding did to each non-numeric
	// column, mirroring what downstream inspection expects to see.
	TransformLog []string `json:"transformLog"`
}

// demandCode maps the ordinal label to its integer code.
var demandCode = map[string]float64{
	DemandLow:    0,
	DemandMedium: 1,
	DemandHigh:   2,
}

// Encode turns product aggregates into a model-ready table. The category
// column becomes one indicator per distinct observed category (none
// dropped, so the encoding stays invertible), indicator columns are named
// by slug and ordered alphabetically for stability, the demand label maps
// to {low:0, medium:1, high:2}, and the free-text product name is dropped
// while the numeric product key is retained for traceability.
func Encode(seg *SegmentResult) *ModelTable {
	categorySet := make(map[string]bool)
	for i := range seg.Aggregates {
		categorySet[seg.Aggregates[i].Category] = true
	}
	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return schema.Slug(categories[i]) < schema.Slug(categories[j])
	})

	columns := []string{
		"product_id",
		"total_units",
		"total_revenue",
		"transaction_count",
		"avg_unit_price",
		"revenue_per_transaction",
		"units_per_transaction",
	}
	for _, c := range categories {
		columns = append(columns, categoryPrefix+schema.Slug(c))
	}
	columns = append(columns, TargetColumn)

	table := &ModelTable{
		Columns: columns,
		Rows:    make([][]float64, 0, len(seg.Aggregates)),
		TransformLog: []string{
			"category: one-hot encoded, all categories kept",
			"demand_label: mapped to " + TargetColumn + " {low:0, medium:1, high:2}",
			"name: dropped (high-cardinality free text)",
		},
	}

	for i := range seg.Aggregates {
		agg := &seg.Aggregates[i]
		row := make([]float64, 0, len(columns))
		row = append(row,
			float64(agg.ProductID),
			float64(agg.TotalUnits),
			agg.TotalRevenue,
			float64(agg.TransactionCount),
			agg.AvgUnitPrice,
			agg.RevenuePerTransaction,
			agg.UnitsPerTransaction,
		)
		for _, c := range categories {
			if agg.Category == c {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		row = append(row, demandCode[agg.DemandLabel])
		table.Rows = append(table.Rows, row)
	}

	return table
}
