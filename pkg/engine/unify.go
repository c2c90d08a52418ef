package engine

import (
	"fmt"

	"aurelion/pkg/schema"
)

// UnifyResult contains the denormalized record set plus everything learned
// while joining: quality warnings and join statistics.
type UnifyResult struct {
	Records []schema.UnifiedRecord `json:"records"`

	// DropLineAmount is set when the supplied line_amount column is exactly
	// equal to the recomputed total_amount on every row, making it a
	// duplicate column the persisted artifact can omit. The comparison is
	// exact float equality, matching the upstream contract.
	DropLineAmount bool `json:"dropLineAmount"`

	Warnings []QualityWarning `json:"warnings"`
	Stats    UnifyStats       `json:"stats"`
}

// UnifyStats contains aggregate statistics about the unification.
type UnifyStats struct {
	TotalRecords        int `json:"totalRecords"`
	MatchedCustomers    int `json:"matchedCustomers"`
	UnmatchedCustomers  int `json:"unmatchedCustomers"`
	MatchedProducts     int `json:"matchedProducts"`
	UnmatchedProducts   int `json:"unmatchedProducts"`
	HeadersWithoutLines int `json:"headersWithoutLines"`
	LinesWithoutHeaders int `json:"linesWithoutHeaders"`
	PriceMismatches     int `json:"priceMismatches"`
}

// Unify joins the four source tables into one record per sale line.
//
// Sales anchor the join: every header resolves its customer (or is kept
// with a nil customer and a warning), every line resolves its product the
// same way, and the two sides meet on sale_id. Headers with no lines and
// lines with no header are both retained so no revenue silently disappears.
// total_amount is recomputed as quantity * unit_price for every row.
func Unify(
	customers []schema.Customer,
	products []schema.Product,
	headers []schema.SaleHeader,
	lines []schema.SaleLine,
) (*UnifyResult, error) {
	if len(customers) == 0 {
		return nil, &schema.EmptySourceError{Table: schema.TableCustomers}
	}
	if len(products) == 0 {
		return nil, &schema.EmptySourceError{Table: schema.TableProducts}
	}
	if len(headers) == 0 {
		return nil, &schema.EmptySourceError{Table: schema.TableSaleHeaders}
	}
	if len(lines) == 0 {
		return nil, &schema.EmptySourceError{Table: schema.TableSaleLines}
	}

	customerByID := make(map[int]*schema.Customer, len(customers))
	for i := range customers {
		if _, exists := customerByID[customers[i].CustomerID]; !exists {
			customerByID[customers[i].CustomerID] = &customers[i]
		}
	}

	productByID := make(map[int]*schema.Product, len(products))
	for i := range products {
		if _, exists := productByID[products[i].ProductID]; !exists {
			productByID[products[i].ProductID] = &products[i]
		}
	}

	linesBySale := make(map[int][]schema.SaleLine, len(headers))
	for _, line := range lines {
		linesBySale[line.SaleID] = append(linesBySale[line.SaleID], line)
	}

	result := &UnifyResult{
		Records: make([]schema.UnifiedRecord, 0, len(lines)),
	}

	knownSales := make(map[int]bool, len(headers))
	for i := range headers {
		header := &headers[i]
		knownSales[header.SaleID] = true

		customer := customerByID[header.CustomerID]
		if customer == nil {
			result.Stats.UnmatchedCustomers++
			result.Warnings = append(result.Warnings, QualityWarning{
				Kind:    WarnUnmatchedCustomer,
				SaleID:  header.SaleID,
				Message: fmt.Sprintf("sale %d references unknown customer %d; customer fields left null", header.SaleID, header.CustomerID),
			})
		} else {
			result.Stats.MatchedCustomers++
		}

		saleLines := linesBySale[header.SaleID]
		if len(saleLines) == 0 {
			// A header with no line items still represents a sale event;
			// keep it with a zero-valued line side.
			result.Stats.HeadersWithoutLines++
			result.Warnings = append(result.Warnings, QualityWarning{
				Kind:    WarnHeaderWithoutLines,
				SaleID:  header.SaleID,
				Message: fmt.Sprintf("sale %d has no line items", header.SaleID),
			})
			result.Records = append(result.Records, schema.UnifiedRecord{
				Header:   header,
				Customer: customer,
			})
			continue
		}

		for _, line := range saleLines {
			result.Records = append(result.Records, unifyLine(result, line, header, customer, productByID))
		}
	}

	// Lines referencing a sale_id with no header are retained with a null
	// header side rather than dropped.
	for _, line := range lines {
		if knownSales[line.SaleID] {
			continue
		}
		result.Stats.LinesWithoutHeaders++
		result.Warnings = append(result.Warnings, QualityWarning{
			Kind:      WarnLineWithoutHeader,
			SaleID:    line.SaleID,
			ProductID: line.ProductID,
			SourceRow: line.SourceRow,
			Message:   fmt.Sprintf("line row %d references unknown sale %d; header fields left null", line.SourceRow, line.SaleID),
		})
		result.Records = append(result.Records, unifyLine(result, line, nil, nil, productByID))
	}

	result.Stats.TotalRecords = len(result.Records)
	result.DropLineAmount = lineAmountIsDuplicate(result.Records)

	return result, nil
}

// unifyLine builds one unified record from a sale line, resolving its
// product and checking price agreement between the line and the master.
func unifyLine(
	result *UnifyResult,
	line schema.SaleLine,
	header *schema.SaleHeader,
	customer *schema.Customer,
	productByID map[int]*schema.Product,
) schema.UnifiedRecord {
	rec := schema.UnifiedRecord{
		Line:        line,
		HasLine:     true,
		Header:      header,
		Customer:    customer,
		TotalAmount: float64(line.Quantity) * line.UnitPrice,
	}

	product := productByID[line.ProductID]
	if product == nil {
		result.Stats.UnmatchedProducts++
		result.Warnings = append(result.Warnings, QualityWarning{
			Kind:      WarnUnmatchedProduct,
			SaleID:    line.SaleID,
			ProductID: line.ProductID,
			SourceRow: line.SourceRow,
			Message:   fmt.Sprintf("line row %d references unknown product %d; product fields left null", line.SourceRow, line.ProductID),
		})
	} else {
		result.Stats.MatchedProducts++
		rec.Product = product

		// The line carries its own unit price; disagreement with the
		// product master is a quality signal, not a join failure.
		if line.UnitPrice != product.UnitPrice {
			result.Stats.PriceMismatches++
			result.Warnings = append(result.Warnings, QualityWarning{
				Kind:      WarnPriceMismatch,
				SaleID:    line.SaleID,
				ProductID: line.ProductID,
				SourceRow: line.SourceRow,
				Message:   fmt.Sprintf("product %d: line price %.2f disagrees with master price %.2f", line.ProductID, line.UnitPrice, product.UnitPrice),
			})
		}
	}

	// Both amounts are retained when they disagree; a currency-rounding
	// exception is tracked as a warning instead of overwriting either side.
	if line.LineAmount != rec.TotalAmount {
		result.Warnings = append(result.Warnings, QualityWarning{
			Kind:      WarnAmountMismatch,
			SaleID:    line.SaleID,
			ProductID: line.ProductID,
			SourceRow: line.SourceRow,
			Message:   fmt.Sprintf("line row %d: supplied amount %.2f != computed %.2f", line.SourceRow, line.LineAmount, rec.TotalAmount),
		})
	}

	return rec
}

// lineAmountIsDuplicate reports whether line_amount equals the recomputed
// total on every row that has a line. Exact equality only: a tolerance here
// would change which artifacts keep the column.
func lineAmountIsDuplicate(records []schema.UnifiedRecord) bool {
	sawLine := false
	for i := range records {
		if !records[i].HasLine {
			continue
		}
		sawLine = true
		if records[i].Line.LineAmount != records[i].TotalAmount {
			return false
		}
	}
	return sawLine
}
