package engine

import "fmt"

// InconsistentAggregationError reports that the unit sum over product
// aggregates does not equal the unit sum over the source records. This can
// only come from a join fan-out defect, so it is fatal and never downgraded
// to a warning.
type InconsistentAggregationError struct {
	SourceUnits    int
	AggregateUnits int
}

func (e *InconsistentAggregationError) Error() string {
	return fmt.Sprintf("aggregation lost units: source total %d, aggregate total %d", e.SourceUnits, e.AggregateUnits)
}

// InsufficientDataError reports that too few distinct products exist for
// three-way quantile binning. Unification output remains usable; only the
// segmentation stage fails.
type InsufficientDataError struct {
	Distinct int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("demand segmentation needs at least %d distinct products, got %d", e.Required, e.Distinct)
}
