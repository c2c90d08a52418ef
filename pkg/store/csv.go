package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"aurelion/pkg/engine"
)

// CSV artifacts are written with a UTF-8 BOM (utf-8-sig) so spreadsheet
// tools render accented category and city names correctly.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// WriteUnifiedCSV overwrites path with the unified table. Column layout
// matches SaveUnified, including the conditional line_amount column.
func WriteUnifiedCSV(path string, result *engine.UnifyResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(bomUTF8); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)

	header := []string{
		"sale_id", "sale_date", "payment_method",
		"customer_id", "customer_name", "email", "city",
		"product_id", "product_name", "declared_category", "assigned_category",
		"quantity", "unit_price",
	}
	if !result.DropLineAmount {
		header = append(header, "line_amount")
	}
	header = append(header, "total_amount")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range result.Records {
		rec := &result.Records[i]
		row := make([]string, 0, len(header))

		if rec.Header != nil {
			saleDate := ""
			if !rec.Header.SaleDate.IsZero() {
				saleDate = rec.Header.SaleDate.Format("2006-01-02")
			}
			row = append(row, strconv.Itoa(rec.Header.SaleID), saleDate, rec.Header.PaymentMethod)
		} else {
			row = append(row, strconv.Itoa(rec.Line.SaleID), "", "")
		}

		if rec.Customer != nil {
			row = append(row, strconv.Itoa(rec.Customer.CustomerID), rec.Customer.Name, rec.Customer.Email, rec.Customer.City)
		} else {
			row = append(row, "", "", "", "")
		}

		if rec.Product != nil {
			row = append(row, strconv.Itoa(rec.Product.ProductID), rec.Product.Name, rec.Product.DeclaredCategory)
		} else if rec.HasLine {
			row = append(row, strconv.Itoa(rec.Line.ProductID), "", "")
		} else {
			row = append(row, "", "", "")
		}
		row = append(row, rec.AssignedCategory)

		if rec.HasLine {
			row = append(row, strconv.Itoa(rec.Line.Quantity), formatFloat(rec.Line.UnitPrice))
			if !result.DropLineAmount {
				row = append(row, formatFloat(rec.Line.LineAmount))
			}
			row = append(row, formatFloat(rec.TotalAmount))
		} else {
			row = append(row, "", "")
			if !result.DropLineAmount {
				row = append(row, "")
			}
			row = append(row, "")
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteModelCSV overwrites path with the model-ready table.
func WriteModelCSV(path string, table *engine.ModelTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(bomUTF8); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, values := range table.Rows {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = formatFloat(v)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
