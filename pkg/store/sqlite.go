// Package store persists the unified and model-ready tables. Every write is
// an idempotent overwrite: re-running the pipeline with identical inputs
// reproduces identical artifacts.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"aurelion/pkg/engine"
)

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// SaveUnified overwrites the unified_sales table. The line_amount column is
// omitted when unification found it exactly duplicates total_amount.
// Unresolved customer or product sides are stored as NULLs.
func SaveUnified(db *sql.DB, result *engine.UnifyResult) error {
	cols := []string{
		"sale_id", "sale_date", "payment_method",
		"customer_id", "customer_name", "email", "city",
		"product_id", "product_name", "declared_category", "assigned_category",
		"quantity", "unit_price",
	}
	if !result.DropLineAmount {
		cols = append(cols, "line_amount")
	}
	cols = append(cols, "total_amount")

	defs := make([]string, len(cols))
	for i, c := range cols {
		switch c {
		case "sale_id", "customer_id", "product_id", "quantity":
			defs[i] = c + " INTEGER"
		case "unit_price", "line_amount", "total_amount":
			defs[i] = c + " REAL"
		default:
			defs[i] = c + " TEXT"
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS unified_sales`); err != nil {
		return fmt.Errorf("drop unified_sales: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE unified_sales (%s)`, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create unified_sales: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO unified_sales (%s) VALUES (%s)`,
		strings.Join(cols, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range result.Records {
		rec := &result.Records[i]

		args := make([]interface{}, 0, len(cols))

		if rec.Header != nil {
			var saleDate interface{}
			if !rec.Header.SaleDate.IsZero() {
				saleDate = rec.Header.SaleDate.Format("2006-01-02")
			}
			args = append(args, rec.Header.SaleID, saleDate, rec.Header.PaymentMethod)
		} else {
			args = append(args, rec.Line.SaleID, nil, nil)
		}

		if rec.Customer != nil {
			args = append(args, rec.Customer.CustomerID, rec.Customer.Name, rec.Customer.Email, rec.Customer.City)
		} else {
			args = append(args, nil, nil, nil, nil)
		}

		if rec.Product != nil {
			args = append(args, rec.Product.ProductID, rec.Product.Name, rec.Product.DeclaredCategory)
		} else if rec.HasLine {
			args = append(args, rec.Line.ProductID, nil, nil)
		} else {
			args = append(args, nil, nil, nil)
		}
		args = append(args, rec.AssignedCategory)

		if rec.HasLine {
			args = append(args, rec.Line.Quantity, rec.Line.UnitPrice)
			if !result.DropLineAmount {
				args = append(args, rec.Line.LineAmount)
			}
			args = append(args, rec.TotalAmount)
		} else {
			args = append(args, nil, nil)
			if !result.DropLineAmount {
				args = append(args, nil)
			}
			args = append(args, nil)
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert unified row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// SaveModelTable overwrites the product_demand table with the model-ready
// feature rows. All columns are REAL; the schema follows the table's own
// column list so rule-table changes reshape the artifact automatically.
func SaveModelTable(db *sql.DB, table *engine.ModelTable) error {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = c + " REAL"
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS product_demand`); err != nil {
		return fmt.Errorf("drop product_demand: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE product_demand (%s)`, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create product_demand: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO product_demand (%s) VALUES (%s)`,
		strings.Join(table.Columns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		args := make([]interface{}, len(row))
		for j, v := range row {
			args[j] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert model row %d: %w", i, err)
		}
	}

	return tx.Commit()
}
