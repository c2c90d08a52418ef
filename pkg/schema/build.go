package schema

import (
	"strconv"
	"strings"
	"time"
)

// Source table names used in error messages. Callers pass raw parsed rows;
// the builders validate shape, map headers, and coerce types.
const (
	TableCustomers   = "customers"
	TableProducts    = "products"
	TableSaleHeaders = "sales"
	TableSaleLines   = "sale_lines"
)

// dateFormats are tried in order when parsing date cells. Excel exports and
// the regenerated CSV artifact use different conventions.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"2006/01/02",
}

// BuildCustomers converts raw rows into typed customers.
// Returns MissingKeyError if the customer key column is absent and
// EmptySourceError if the source has no rows.
func BuildCustomers(records []map[string]string) ([]Customer, error) {
	if len(records) == 0 {
		return nil, &EmptySourceError{Table: TableCustomers}
	}
	if !HasColumn(records, FieldCustomerID) {
		return nil, &MissingKeyError{Table: TableCustomers, Key: FieldCustomerID}
	}

	customers := make([]Customer, 0, len(records))
	for _, raw := range records {
		rec := MapHeaders(raw)
		customers = append(customers, Customer{
			CustomerID: parseInt(rec[FieldCustomerID]),
			Name:       strings.TrimSpace(rec[FieldCustomerName]),
			Email:      strings.ToLower(strings.TrimSpace(rec[FieldEmail])),
			SignupDate: parseDate(rec[FieldSignupDate]),
			City:       strings.TrimSpace(rec[FieldCity]),
		})
	}
	return customers, nil
}

// BuildProducts converts raw rows into typed products.
func BuildProducts(records []map[string]string) ([]Product, error) {
	if len(records) == 0 {
		return nil, &EmptySourceError{Table: TableProducts}
	}
	if !HasColumn(records, FieldProductID) {
		return nil, &MissingKeyError{Table: TableProducts, Key: FieldProductID}
	}

	products := make([]Product, 0, len(records))
	for _, raw := range records {
		rec := MapHeaders(raw)
		products = append(products, Product{
			ProductID:        parseInt(rec[FieldProductID]),
			Name:             strings.TrimSpace(rec[FieldProductName]),
			UnitPrice:        parseFloat(rec[FieldUnitPrice]),
			DeclaredCategory: strings.TrimSpace(rec[FieldDeclaredCategory]),
		})
	}
	return products, nil
}

// BuildSaleHeaders converts raw rows into typed sale headers. Both the sale
// key and the customer foreign key columns are required.
func BuildSaleHeaders(records []map[string]string) ([]SaleHeader, error) {
	if len(records) == 0 {
		return nil, &EmptySourceError{Table: TableSaleHeaders}
	}
	if !HasColumn(records, FieldSaleID) {
		return nil, &MissingKeyError{Table: TableSaleHeaders, Key: FieldSaleID}
	}
	if !HasColumn(records, FieldCustomerID) {
		return nil, &MissingKeyError{Table: TableSaleHeaders, Key: FieldCustomerID}
	}

	headers := make([]SaleHeader, 0, len(records))
	for _, raw := range records {
		rec := MapHeaders(raw)
		headers = append(headers, SaleHeader{
			SaleID:        parseInt(rec[FieldSaleID]),
			CustomerID:    parseInt(rec[FieldCustomerID]),
			SaleDate:      parseDate(rec[FieldSaleDate]),
			PaymentMethod: strings.TrimSpace(rec[FieldPaymentMethod]),
		})
	}
	return headers, nil
}

// BuildSaleLines converts raw rows into typed sale lines. SourceRow is the
// 1-indexed data row, kept for quality warnings.
func BuildSaleLines(records []map[string]string) ([]SaleLine, error) {
	if len(records) == 0 {
		return nil, &EmptySourceError{Table: TableSaleLines}
	}
	if !HasColumn(records, FieldSaleID) {
		return nil, &MissingKeyError{Table: TableSaleLines, Key: FieldSaleID}
	}
	if !HasColumn(records, FieldProductID) {
		return nil, &MissingKeyError{Table: TableSaleLines, Key: FieldProductID}
	}

	lines := make([]SaleLine, 0, len(records))
	for i, raw := range records {
		rec := MapHeaders(raw)
		lines = append(lines, SaleLine{
			SaleID:     parseInt(rec[FieldSaleID]),
			ProductID:  parseInt(rec[FieldProductID]),
			Quantity:   parseInt(rec[FieldQuantity]),
			UnitPrice:  parseFloat(rec[FieldUnitPrice]),
			LineAmount: parseFloat(rec[FieldLineAmount]),
			SourceRow:  i + 1,
		})
	}
	return lines, nil
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Excel sometimes exports integer ids as "12.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Tolerate a decimal comma from locale-formatted exports.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
