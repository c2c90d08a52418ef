package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseFile reads a tabular source, dispatching on extension. The four
// source tables are .xlsx workbooks; regenerated artifacts are .csv.
func ParseFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ParseXLSX(data)
	case ".csv":
		return ParseCSV(data)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
}
