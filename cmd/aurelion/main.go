// Command aurelion runs the full batch pipeline: load the four source
// tables, unify them into one denormalized record set, classify product
// names, audit fallback assignments, segment demand, and persist the
// unified and model-ready tables.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"aurelion/pkg/classify"
	"aurelion/pkg/config"
	"aurelion/pkg/engine"
	"aurelion/pkg/parser"
	"aurelion/pkg/report"
	"aurelion/pkg/schema"
	"aurelion/pkg/store"
)

func main() {
	cfg := config.Load()

	dataDir := flag.String("data", cfg.DataDir, "Directory holding the source tables")
	rulesPath := flag.String("rules", cfg.RulesPath, "Path to a JSON rule table (empty = built-in rules)")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database for the output tables")
	outDir := flag.String("out", cfg.OutDir, "Directory for CSV artifacts")
	reportJSON := flag.Bool("report-json", false, "Print the full run report as JSON")
	flag.Parse()
	cfg.DataDir = *dataDir
	cfg.RulesPath = *rulesPath
	cfg.DBPath = *dbPath
	cfg.OutDir = *outDir

	if err := run(cfg, *reportJSON); err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}
}

func run(cfg *config.Config, reportJSON bool) error {
	customers, err := loadTable(cfg.SourcePath(cfg.CustomersFile), schema.BuildCustomers)
	if err != nil {
		return err
	}
	products, err := loadTable(cfg.SourcePath(cfg.ProductsFile), schema.BuildProducts)
	if err != nil {
		return err
	}
	headers, err := loadTable(cfg.SourcePath(cfg.SalesFile), schema.BuildSaleHeaders)
	if err != nil {
		return err
	}
	lines, err := loadTable(cfg.SourcePath(cfg.LinesFile), schema.BuildSaleLines)
	if err != nil {
		return err
	}
	log.Printf("loaded %d customers, %d products, %d sales, %d lines",
		len(customers), len(products), len(headers), len(lines))

	unified, err := engine.Unify(customers, products, headers, lines)
	if err != nil {
		return err
	}
	log.Printf("unified %d records (%d warnings)", unified.Stats.TotalRecords, len(unified.Warnings))

	table := classify.DefaultRuleTable()
	if cfg.RulesPath != "" {
		table, err = classify.LoadRuleTable(cfg.RulesPath)
		if err != nil {
			return err
		}
		log.Printf("loaded rule table from %s (%d categories)", cfg.RulesPath, len(table.Categories))
	}
	classifier, err := classify.NewClassifier(table)
	if err != nil {
		return err
	}
	classifier.ClassifyAll(unified.Records)

	audit := classifier.AuditFallback(unified.Records)
	log.Printf("classified: %d fallback, %d suspect", len(audit.Fallback), len(audit.Suspect))

	// Segmentation failure on thin data leaves the unified output usable;
	// the aggregation invariant failure is a defect and aborts.
	seg, err := engine.Segment(unified.Records)
	if err != nil {
		var insufficient *engine.InsufficientDataError
		if !errors.As(err, &insufficient) {
			return err
		}
		log.Printf("skipping demand segmentation: %v", err)
		seg = nil
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.SaveUnified(db, unified); err != nil {
		return err
	}
	if err := store.WriteUnifiedCSV(filepath.Join(cfg.OutDir, "df_tienda_aurelion.csv"), unified); err != nil {
		return err
	}

	if seg != nil {
		model := engine.Encode(seg)
		if err := store.SaveModelTable(db, model); err != nil {
			return err
		}
		if err := store.WriteModelCSV(filepath.Join(cfg.OutDir, "dataset_ml_productos.csv"), model); err != nil {
			return err
		}
		log.Printf("segmented %d products (thresholds %.2f / %.2f)",
			len(seg.Aggregates), seg.LowThreshold, seg.HighThreshold)
	}

	runReport := report.Build(unified, audit, seg)
	log.Print(runReport.Summary())
	for _, w := range runReport.Warnings {
		log.Printf("warning: %s", w)
	}

	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(runReport); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	}

	return nil
}

// loadTable parses a source file and converts it with the given builder,
// surfacing parse warnings through the standard logger.
func loadTable[T any](path string, build func([]map[string]string) ([]T, error)) ([]T, error) {
	parsed, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	for _, w := range parsed.Warnings {
		log.Printf("%s row %d: %s", filepath.Base(path), w.Row, w.Message)
	}
	return build(parsed.Records)
}
