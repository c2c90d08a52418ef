package engine

import "fmt"

// Warning kinds. Warnings are data-quality signals collected alongside the
// output; none of them aborts the pipeline.
const (
	WarnUnmatchedCustomer  = "unmatched_customer"
	WarnUnmatchedProduct   = "unmatched_product"
	WarnPriceMismatch      = "price_mismatch"
	WarnAmountMismatch     = "amount_mismatch"
	WarnHeaderWithoutLines = "header_without_lines"
	WarnLineWithoutHeader  = "line_without_header"
	WarnSuspectFallback    = "suspect_fallback"
)

// QualityWarning flags a row that could not be fully reconciled. The row
// itself is always retained; the warning is the only trace.
type QualityWarning struct {
	Kind      string `json:"kind"`
	SaleID    int    `json:"saleId,omitempty"`
	ProductID int    `json:"productId,omitempty"`
	SourceRow int    `json:"sourceRow,omitempty"`
	Message   string `json:"message"`
}

func (w QualityWarning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}
