package schema

import (
	"errors"
	"testing"
)

func TestBuildCustomersSpanishHeaders(t *testing.T) {
	records := []map[string]string{
		{"id_cliente": "1", "nombre_cliente": "Ana López", "email": "ANA@Example.com", "fecha_alta": "2023-06-01", "ciudad": "Córdoba"},
		{"id_cliente": "2", "nombre_cliente": "Bruno Díaz", "email": "bruno@example.com", "fecha_alta": "15/02/2023", "ciudad": "Rosario"},
	}

	customers, err := BuildCustomers(records)
	if err != nil {
		t.Fatalf("BuildCustomers failed: %v", err)
	}

	if customers[0].CustomerID != 1 || customers[0].Name != "Ana López" {
		t.Errorf("customer 0 = %+v", customers[0])
	}
	if customers[0].Email != "ana@example.com" {
		t.Errorf("email not lowercased: %q", customers[0].Email)
	}
	if customers[0].SignupDate.IsZero() {
		t.Error("ISO signup date failed to parse")
	}
	if customers[1].SignupDate.IsZero() {
		t.Error("dd/mm signup date failed to parse")
	}
}

func TestBuildMissingKey(t *testing.T) {
	tests := []struct {
		name    string
		build   func() error
		wantKey string
	}{
		{"customers", func() error {
			_, err := BuildCustomers([]map[string]string{{"nombre_cliente": "Ana"}})
			return err
		}, FieldCustomerID},
		{"products", func() error {
			_, err := BuildProducts([]map[string]string{{"nombre_producto": "Pan"}})
			return err
		}, FieldProductID},
		{"sales missing sale key", func() error {
			_, err := BuildSaleHeaders([]map[string]string{{"id_cliente": "1"}})
			return err
		}, FieldSaleID},
		{"sales missing customer key", func() error {
			_, err := BuildSaleHeaders([]map[string]string{{"id_venta": "1"}})
			return err
		}, FieldCustomerID},
		{"lines missing product key", func() error {
			_, err := BuildSaleLines([]map[string]string{{"id_venta": "1", "cantidad": "2"}})
			return err
		}, FieldProductID},
	}

	for _, tt := range tests {
		err := tt.build()
		var missing *MissingKeyError
		if !errors.As(err, &missing) {
			t.Errorf("%s: got %v, want MissingKeyError", tt.name, err)
			continue
		}
		if missing.Key != tt.wantKey {
			t.Errorf("%s: Key = %q, want %q", tt.name, missing.Key, tt.wantKey)
		}
	}
}

func TestBuildEmptySource(t *testing.T) {
	_, err := BuildProducts(nil)
	var empty *EmptySourceError
	if !errors.As(err, &empty) {
		t.Fatalf("got %v, want EmptySourceError", err)
	}
	if empty.Table != TableProducts {
		t.Errorf("Table = %q, want %q", empty.Table, TableProducts)
	}
}

func TestBuildSaleLines(t *testing.T) {
	records := []map[string]string{
		{"id_venta": "100", "id_producto": "10", "cantidad": "2", "precio_unitario": "1500.50", "importe": "3001"},
		{"id_venta": "100", "id_producto": "11", "cantidad": "1", "precio_unitario": "950,00", "importe": "950"},
	}

	lines, err := BuildSaleLines(records)
	if err != nil {
		t.Fatalf("BuildSaleLines failed: %v", err)
	}

	if lines[0].UnitPrice != 1500.50 {
		t.Errorf("unit price = %v, want 1500.50", lines[0].UnitPrice)
	}
	if lines[1].UnitPrice != 950 {
		t.Errorf("decimal comma price = %v, want 950", lines[1].UnitPrice)
	}
	if lines[0].SourceRow != 1 || lines[1].SourceRow != 2 {
		t.Errorf("source rows = %d, %d, want 1 and 2", lines[0].SourceRow, lines[1].SourceRow)
	}
}

func TestParseIntExcelFloat(t *testing.T) {
	// Excel round-trips integer ids as "12.0".
	if got := parseInt("12.0"); got != 12 {
		t.Errorf("parseInt(12.0) = %d, want 12", got)
	}
	if got := parseInt(" 7 "); got != 7 {
		t.Errorf("parseInt(' 7 ') = %d, want 7", got)
	}
	if got := parseInt("n/a"); got != 0 {
		t.Errorf("parseInt(n/a) = %d, want 0", got)
	}
}
