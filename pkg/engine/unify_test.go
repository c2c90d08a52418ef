package engine

import (
	"errors"
	"testing"
	"time"

	"aurelion/pkg/schema"
)

func testCustomers() []schema.Customer {
	return []schema.Customer{
		{CustomerID: 1, Name: "Ana López", Email: "ana@example.com", City: "Córdoba"},
		{CustomerID: 2, Name: "Bruno Díaz", Email: "bruno@example.com", City: "Rosario"},
	}
}

func testProducts() []schema.Product {
	return []schema.Product{
		{ProductID: 10, Name: "Coca Cola 1.5L", UnitPrice: 1500, DeclaredCategory: "Bebidas"},
		{ProductID: 11, Name: "Pan Lactal", UnitPrice: 950, DeclaredCategory: "Almacén"},
		{ProductID: 12, Name: "Leche Entera", UnitPrice: 800, DeclaredCategory: "Lácteos"},
	}
}

func testHeaders() []schema.SaleHeader {
	return []schema.SaleHeader{
		{SaleID: 100, CustomerID: 1, SaleDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), PaymentMethod: "efectivo"},
		{SaleID: 101, CustomerID: 2, SaleDate: time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), PaymentMethod: "tarjeta"},
	}
}

func testLines() []schema.SaleLine {
	return []schema.SaleLine{
		{SaleID: 100, ProductID: 10, Quantity: 2, UnitPrice: 1500, LineAmount: 3000, SourceRow: 1},
		{SaleID: 100, ProductID: 11, Quantity: 1, UnitPrice: 950, LineAmount: 950, SourceRow: 2},
		{SaleID: 101, ProductID: 12, Quantity: 3, UnitPrice: 800, LineAmount: 2400, SourceRow: 3},
	}
}

func TestUnifyPreservesQuantities(t *testing.T) {
	result, err := Unify(testCustomers(), testProducts(), testHeaders(), testLines())
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3 (one per line)", len(result.Records))
	}

	sourceQty := 0
	for _, line := range testLines() {
		sourceQty += line.Quantity
	}
	unifiedQty := 0
	for i := range result.Records {
		unifiedQty += result.Records[i].Line.Quantity
	}
	if sourceQty != unifiedQty {
		t.Errorf("quantity not preserved across join: source %d, unified %d", sourceQty, unifiedQty)
	}

	if len(result.Warnings) != 0 {
		t.Errorf("clean input produced warnings: %v", result.Warnings)
	}
}

func TestUnifyComputesTotalAmount(t *testing.T) {
	result, err := Unify(testCustomers(), testProducts(), testHeaders(), testLines())
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	for i := range result.Records {
		rec := &result.Records[i]
		want := float64(rec.Line.Quantity) * rec.Line.UnitPrice
		if rec.TotalAmount != want {
			t.Errorf("record %d: TotalAmount = %v, want %v", i, rec.TotalAmount, want)
		}
	}

	// Every line amount equals the recomputed total, so the duplicate
	// column is dropped from persisted artifacts.
	if !result.DropLineAmount {
		t.Error("DropLineAmount = false, want true for column-identical amounts")
	}
}

func TestUnifyKeepsLineAmountOnDisagreement(t *testing.T) {
	lines := testLines()
	lines[1].LineAmount = 951 // off by one centavo-ish unit

	result, err := Unify(testCustomers(), testProducts(), testHeaders(), lines)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	if result.DropLineAmount {
		t.Error("DropLineAmount = true despite a disagreeing row")
	}

	// Both values are retained; the disagreement surfaces as a warning.
	found := false
	for _, w := range result.Warnings {
		if w.Kind == WarnAmountMismatch && w.SourceRow == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s warning for row 2, got %v", WarnAmountMismatch, result.Warnings)
	}
	if result.Records[1].Line.LineAmount != 951 {
		t.Errorf("supplied amount overwritten: %v", result.Records[1].Line.LineAmount)
	}
}

func TestUnifyUnmatchedProduct(t *testing.T) {
	lines := append(testLines(), schema.SaleLine{
		SaleID: 101, ProductID: 99, Quantity: 5, UnitPrice: 100, LineAmount: 500, SourceRow: 4,
	})

	result, err := Unify(testCustomers(), testProducts(), testHeaders(), lines)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	// The row is retained with null product fields, not dropped.
	if len(result.Records) != 4 {
		t.Fatalf("got %d records, want 4", len(result.Records))
	}

	var orphan *schema.UnifiedRecord
	for i := range result.Records {
		if result.Records[i].Line.ProductID == 99 {
			orphan = &result.Records[i]
		}
	}
	if orphan == nil {
		t.Fatal("line with unknown product was dropped")
	}
	if orphan.Product != nil {
		t.Error("unknown product resolved to a master row")
	}

	if result.Stats.UnmatchedProducts != 1 {
		t.Errorf("UnmatchedProducts = %d, want 1", result.Stats.UnmatchedProducts)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Kind == WarnUnmatchedProduct && w.ProductID == 99 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s warning, got %v", WarnUnmatchedProduct, result.Warnings)
	}
}

func TestUnifyUnmatchedCustomer(t *testing.T) {
	headers := testHeaders()
	headers[1].CustomerID = 42 // no such customer

	result, err := Unify(testCustomers(), testProducts(), headers, testLines())
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	for i := range result.Records {
		rec := &result.Records[i]
		if rec.Header != nil && rec.Header.SaleID == 101 && rec.Customer != nil {
			t.Error("sale 101 resolved to a customer despite the missing key")
		}
	}
	if result.Stats.UnmatchedCustomers != 1 {
		t.Errorf("UnmatchedCustomers = %d, want 1", result.Stats.UnmatchedCustomers)
	}
}

func TestUnifyPriceMismatchWarning(t *testing.T) {
	lines := testLines()
	lines[0].UnitPrice = 1400 // master says 1500

	result, err := Unify(testCustomers(), testProducts(), testHeaders(), lines)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	if result.Stats.PriceMismatches != 1 {
		t.Errorf("PriceMismatches = %d, want 1", result.Stats.PriceMismatches)
	}
	// Disagreement is a warning, never a join failure: the record still
	// resolves its product.
	if result.Records[0].Product == nil {
		t.Error("price mismatch broke the product join")
	}
}

func TestUnifyHeaderWithoutLines(t *testing.T) {
	headers := append(testHeaders(), schema.SaleHeader{
		SaleID: 102, CustomerID: 1, SaleDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	result, err := Unify(testCustomers(), testProducts(), headers, testLines())
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	if result.Stats.HeadersWithoutLines != 1 {
		t.Errorf("HeadersWithoutLines = %d, want 1", result.Stats.HeadersWithoutLines)
	}
	var empty *schema.UnifiedRecord
	for i := range result.Records {
		if result.Records[i].Header != nil && result.Records[i].Header.SaleID == 102 {
			empty = &result.Records[i]
		}
	}
	if empty == nil {
		t.Fatal("header without lines was dropped")
	}
	if empty.HasLine {
		t.Error("empty sale claims a line side")
	}
}

func TestUnifyLineWithoutHeader(t *testing.T) {
	lines := append(testLines(), schema.SaleLine{
		SaleID: 999, ProductID: 10, Quantity: 1, UnitPrice: 1500, LineAmount: 1500, SourceRow: 4,
	})

	result, err := Unify(testCustomers(), testProducts(), testHeaders(), lines)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}

	if result.Stats.LinesWithoutHeaders != 1 {
		t.Errorf("LinesWithoutHeaders = %d, want 1", result.Stats.LinesWithoutHeaders)
	}

	var orphan *schema.UnifiedRecord
	for i := range result.Records {
		if result.Records[i].Line.SaleID == 999 {
			orphan = &result.Records[i]
		}
	}
	if orphan == nil {
		t.Fatal("line without header was dropped")
	}
	if orphan.Header != nil || orphan.Customer != nil {
		t.Error("orphan line fabricated a header side")
	}
	// Its product still resolves and its quantity still counts.
	if orphan.Product == nil || orphan.Line.Quantity != 1 {
		t.Error("orphan line lost its product or quantity")
	}
}

func TestUnifyEmptySource(t *testing.T) {
	tests := []struct {
		name string
		run  func() (*UnifyResult, error)
	}{
		{"customers", func() (*UnifyResult, error) {
			return Unify(nil, testProducts(), testHeaders(), testLines())
		}},
		{"products", func() (*UnifyResult, error) {
			return Unify(testCustomers(), nil, testHeaders(), testLines())
		}},
		{"sales", func() (*UnifyResult, error) {
			return Unify(testCustomers(), testProducts(), nil, testLines())
		}},
		{"sale_lines", func() (*UnifyResult, error) {
			return Unify(testCustomers(), testProducts(), testHeaders(), nil)
		}},
	}

	for _, tt := range tests {
		_, err := tt.run()
		var emptyErr *schema.EmptySourceError
		if !errors.As(err, &emptyErr) {
			t.Errorf("%s: got %v, want EmptySourceError", tt.name, err)
			continue
		}
		if emptyErr.Table != tt.name {
			t.Errorf("EmptySourceError.Table = %q, want %q", emptyErr.Table, tt.name)
		}
	}
}
